package admin

import (
	"fmt"
	"strconv"
	"strings"

	"Beats-Telegram-bot/config"
	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"
	"Beats-Telegram-bot/internal/orders"
	"Beats-Telegram-bot/internal/payments"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func IsAdmin(userID int64) bool {
	return userID == config.AppCfg.AdminTelegramID
}

func HandleAdminCommand(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	if update.Message == nil || !IsAdmin(update.Message.From.ID) {
		return
	}
	cmd := update.Message.Command()
	switch cmd {
	case "admin_stats":
		handleStats(bot, update)
	case "admin_orders":
		handleOrders(bot, update)
	case "admin_purchases":
		handlePurchases(bot, update)
	case "admin_partners":
		handlePartners(bot, update)
	case "admin_requests":
		handleRequests(bot, update)
	case "admin_payments":
		handlePayments(bot, update)
	case "admin_setactive":
		handleSetActive(bot, update)
	case "admin_removepartner":
		handleRemovePartner(bot, update)
	case "admin_backup":
		handleBackup(bot, update)
	}
	logger.LogAdminAction(update.Message.From.ID, cmd, update.Message.Text)
}

func handleStats(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	all := db.ListOrders("")
	counts := map[string]int{}
	for _, o := range all {
		counts[o.Status]++
	}
	purchases := db.ListBeatPurchases()
	pCounts := map[string]int{}
	for _, p := range purchases {
		pCounts[p.Status]++
	}
	langs := db.GetAllUserLanguages()
	langCounts := map[string]int{}
	for _, l := range langs {
		langCounts[l]++
	}
	msg := fmt.Sprintf(
		"Заказы: %d\n⏳ Ожидают: %d\n🔨 В работе: %d\n💰 Первая оплата: %d\n💰 Ожидают сумму: %d\n✅ Выполнено: %d\n❌ Отклонено/отменено: %d\n\nПокупки битов: %d\n⏳ Ожидают оплату: %d\n✅ Завершено: %d\n\nЯзыки пользователей: %d\n🇷🇺 ru: %d | 🇬🇧 en: %d",
		len(all),
		counts[db.OrderStatusPending],
		counts[db.OrderStatusInProgress],
		counts[db.OrderStatusFirstPaymentReceived],
		counts[db.OrderStatusAwaitingPrice],
		counts[db.OrderStatusCompleted],
		counts[db.OrderStatusRejected]+counts[db.OrderStatusCancelled],
		len(purchases),
		pCounts[db.PurchaseStatusPendingPayment],
		pCounts[db.PurchaseStatusCompleted],
		len(langs),
		langCounts["ru"],
		langCounts["en"],
	)
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msg))
}

func handleOrders(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	list := db.ListOrders("")
	if len(list) == 0 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Заказов пока нет."))
		return
	}
	var sb strings.Builder
	sb.WriteString("Заказы (первые 20):\n")
	for i, o := range list {
		if i >= 20 {
			break
		}
		partner := "—"
		if o.PartnerUsername != "" {
			partner = "@" + o.PartnerUsername
		}
		sb.WriteString(fmt.Sprintf("%s | @%s | %s | исполнитель: %s\n",
			orders.FormatOrderNumber(o.ID, o.Type), o.Username, o.Status, partner))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

func handlePurchases(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	list := db.ListBeatPurchases()
	if len(list) == 0 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Покупок пока нет."))
		return
	}
	var sb strings.Builder
	sb.WriteString("Покупки битов (первые 20):\n")
	for i, p := range list {
		if i >= 20 {
			break
		}
		sb.WriteString(fmt.Sprintf("%s | @%s | %s | %s | %s\n",
			orders.FormatPurchaseNumber(p.ID), p.Username, p.Beat, p.License, p.Status))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

func handlePartners(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	var partners []db.Partner
	db.DB.Find(&partners)
	if len(partners) == 0 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Партнеров пока нет."))
		return
	}
	var sb strings.Builder
	sb.WriteString("Партнеры:\n")
	for _, p := range partners {
		state := "🔴 неактивен"
		if p.Active {
			state = "🟢 активен"
		}
		sb.WriteString(fmt.Sprintf("@%s (ID: %d) — %s, принято: %d, выполнено: %d\n",
			p.Username, p.UserID, state, p.OrdersAccepted, p.OrdersCompleted))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

func handleRequests(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	requests := db.GetPendingRequests()
	if len(requests) == 0 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ожидающих заявок нет."))
		return
	}
	for _, r := range requests {
		text := fmt.Sprintf("Заявка на партнерство\n@%s (ID: %d)\nИмя: %s\nСообщение: %s\nПодана: %s",
			r.Username, r.UserID, r.Name, r.Message, r.CreatedAt.Format("02.01.2006 15:04"))
		msg := tgbotapi.NewMessage(update.Message.Chat.ID, text)
		id := strconv.FormatInt(r.UserID, 10)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Одобрить", "approve_partner_"+id),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", "reject_partner_"+id),
			),
		)
		bot.Send(msg)
	}
}

func handlePayments(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	// Пример: /admin_payments 123 custom_beat
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) != 2 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_payments <id заказа> <custom_beat|mixing>"))
		return
	}
	orderID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Неверный ID заказа"))
		return
	}
	logs := payments.LogsByOrder(uint(orderID), args[1])
	if len(logs) == 0 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Платежей по заказу нет."))
		return
	}
	var sb strings.Builder
	sb.WriteString("Платежи по заказу " + orders.FormatOrderNumber(uint(orderID), args[1]) + ":\n")
	for _, l := range logs {
		sb.WriteString(fmt.Sprintf("%s | %s | %s | %s\n",
			l.CreatedAt.Format("02.01 15:04"), l.PaymentType, l.Amount, l.Status))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

func handleSetActive(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	// Пример: /admin_setactive 123456 0
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) != 2 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_setactive <user_id> <0|1>"))
		return
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Неверный user_id"))
		return
	}
	active := args[1] == "1"
	if !db.SetPartnerActive(userID, active) {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Партнер не найден."))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Статус партнера обновлен."))
}

func handleRemovePartner(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) != 1 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_removepartner <user_id>"))
		return
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Неверный user_id"))
		return
	}
	if !db.RemovePartner(userID) {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Партнер не найден."))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Партнер удален."))
}

func handleBackup(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	filename, err := BackupDatabase(config.AppCfg.BackupDir)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка резервного копирования: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Резервная копия создана: "+filename))
}
