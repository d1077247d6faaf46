package purchasesbot

import (
	"fmt"
	"strconv"
	"strings"

	"Beats-Telegram-bot/config"
	"Beats-Telegram-bot/internal/admin"
	"Beats-Telegram-bot/internal/bot"
	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"
	"Beats-Telegram-bot/internal/orders"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Бот покупок обслуживает только админа: подтверждение оплат,
// пересылка реквизитов и доставка файлов битов клиентам.

var storeBot *tgbotapi.BotAPI // основной бот — все сообщения клиентам идут через него

// Init передает боту покупок экземпляр основного бота
func Init(storeAPI *tgbotapi.BotAPI) {
	storeBot = storeAPI
}

func HandleUpdate(botapi *tgbotapi.BotAPI, update tgbotapi.Update) {
	defer logger.NotifyOnPanic("purchasesbot.HandleUpdate")

	if update.CallbackQuery != nil {
		if !admin.IsAdmin(update.CallbackQuery.From.ID) {
			botapi.Request(tgbotapi.NewCallbackWithAlert(update.CallbackQuery.ID, "Недостаточно прав"))
			return
		}
		handleCallback(botapi, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	if !admin.IsAdmin(update.Message.From.ID) {
		botapi.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Этот бот только для администратора."))
		return
	}

	// Документ с подписью "#<id>" — файл бита для доставки клиенту
	if update.Message.Document != nil || update.Message.Audio != nil {
		handleBeatFile(botapi, update.Message)
		return
	}

	switch {
	case strings.HasPrefix(update.Message.Text, "/start"):
		botapi.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			"Бот покупок.\n/purchases — все покупки\n/waiting_card — ждут реквизиты\n\nЧтобы отправить бит клиенту, пришли файл с подписью #<номер покупки>."))
	case strings.HasPrefix(update.Message.Text, "/purchases"):
		handleListPurchases(botapi, update.Message)
	case strings.HasPrefix(update.Message.Text, "/waiting_card"):
		handleWaitingCard(botapi, update.Message)
	case strings.HasPrefix(update.Message.Text, "/admin_"):
		admin.HandleAdminCommand(botapi, &update)
	}
}

func handleCallback(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	switch {
	case strings.HasPrefix(data, "confirm_payment_"):
		handleConfirmPayment(botapi, cb, parsePurchaseID(data, "confirm_payment_"))
	case strings.HasPrefix(data, "reject_payment_"):
		handleRejectPayment(botapi, cb, parsePurchaseID(data, "reject_payment_"))
	case strings.HasPrefix(data, "send_card_"):
		handleSendCard(botapi, cb, parsePurchaseID(data, "send_card_"))
	}
}

func parsePurchaseID(data, prefix string) uint {
	id, err := strconv.ParseUint(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// handleConfirmPayment переводит покупку в payment_received и просит админа прислать файл
func handleConfirmPayment(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery, purchaseID uint) {
	purchase := db.UpdateBeatPurchaseStatus(purchaseID, db.PurchaseStatusPaymentReceived, nil)
	if purchase == nil {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Покупка не найдена или уже закрыта"))
		return
	}
	logger.LogAdminAction(cb.From.ID, "confirm_purchase_payment",
		strconv.FormatUint(uint64(purchaseID), 10))

	botapi.Request(tgbotapi.NewCallback(cb.ID, "Оплата подтверждена"))
	botapi.Send(tgbotapi.NewMessage(cb.Message.Chat.ID, fmt.Sprintf(
		"✅ Оплата покупки %s подтверждена.\nПришли файл бита с подписью #%d — я доставлю его клиенту.",
		orders.FormatPurchaseNumber(purchaseID), purchaseID)))

	sendToClient(purchase.UserID, fmt.Sprintf(
		"✅ Оплата покупки %s получена! Файл бита придет в ближайшее время.",
		orders.FormatPurchaseNumber(purchaseID)))
}

// handleRejectPayment отклоняет оплату, покупка становится терминальной
func handleRejectPayment(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery, purchaseID uint) {
	purchase := db.UpdateBeatPurchaseStatus(purchaseID, db.PurchaseStatusPaymentRejected, nil)
	if purchase == nil {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Покупка не найдена или уже закрыта"))
		return
	}
	logger.LogAdminAction(cb.From.ID, "reject_purchase_payment",
		strconv.FormatUint(uint64(purchaseID), 10))

	botapi.Request(tgbotapi.NewCallback(cb.ID, "Оплата отклонена"))
	botapi.Send(tgbotapi.NewMessage(cb.Message.Chat.ID,
		"❌ Оплата покупки "+orders.FormatPurchaseNumber(purchaseID)+" отклонена."))

	sendToClient(purchase.UserID, fmt.Sprintf(
		"❌ Оплата покупки %s не подтверждена. Свяжись с администратором или создай покупку заново: /beats",
		orders.FormatPurchaseNumber(purchaseID)))
}

// handleSendCard пересылает клиенту реквизиты карты. Повторная пересылка блокируется.
func handleSendCard(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery, purchaseID uint) {
	purchase := db.GetBeatPurchaseByID(purchaseID)
	if purchase == nil {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Покупка не найдена"))
		return
	}
	if purchase.CardDetailsSent {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Реквизиты уже отправлялись"))
		return
	}
	if config.AppCfg.CardDetails == "" {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "CARD_DETAILS не задан в конфигурации"))
		return
	}
	sendToClient(purchase.UserID,
		"💳 Реквизиты для оплаты покупки "+orders.FormatPurchaseNumber(purchaseID)+":\n\n"+
			config.AppCfg.CardDetails+"\n\nПосле оплаты пришли чек в этот чат.")
	db.UpdateBeatPurchaseStatus(purchaseID, purchase.Status, map[string]interface{}{
		"card_details_sent":    true,
		"waiting_card_details": false,
	})
	logger.LogAdminAction(cb.From.ID, "send_card_details", strconv.FormatUint(uint64(purchaseID), 10))
	botapi.Request(tgbotapi.NewCallback(cb.ID, "Реквизиты отправлены"))
}

// parseDeliveryCaption достает номер покупки из подписи вида "#12"
// или "#12 комментарий". false для пустой подписи, "#" без номера и не-числа.
func parseDeliveryCaption(caption string) (uint, bool) {
	caption = strings.TrimSpace(caption)
	if !strings.HasPrefix(caption, "#") {
		return 0, false
	}
	fields := strings.Fields(strings.TrimPrefix(caption, "#"))
	if len(fields) == 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// handleBeatFile доставляет файл бита клиенту по подписи "#<id>"
func handleBeatFile(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	caption := strings.TrimSpace(message.Caption)
	purchaseID, ok := parseDeliveryCaption(caption)
	if !ok {
		if strings.HasPrefix(caption, "#") {
			botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Не понял номер покупки в подписи: "+caption))
		} else {
			botapi.Send(tgbotapi.NewMessage(message.Chat.ID,
				"Добавь к файлу подпись #<номер покупки>, например #12."))
		}
		return
	}
	purchase := db.GetBeatPurchaseByID(purchaseID)
	if purchase == nil {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID,
			"Покупка "+orders.FormatPurchaseNumber(purchaseID)+" не найдена."))
		return
	}
	if purchase.Status != db.PurchaseStatusPaymentReceived {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf(
			"Покупка %s в статусе %s, файл отправляется только после подтверждения оплаты.",
			orders.FormatPurchaseNumber(purchaseID), purchase.Status)))
		return
	}

	var fileID string
	if message.Document != nil {
		fileID = message.Document.FileID
	} else if message.Audio != nil {
		fileID = message.Audio.FileID
	}
	if storeBot == nil {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Основной бот недоступен."))
		return
	}
	clientCaption := fmt.Sprintf("🎵 Твой бит по покупке %s\n📜 Лицензия: %s\n\nСпасибо за покупку!",
		orders.FormatPurchaseNumber(purchaseID), purchase.License)
	if err := bot.CopyFileBetweenBots(botapi, storeBot, fileID, purchase.UserID, clientCaption); err != nil {
		logger.Error("deliver_beat_file", zap.Uint("purchase_id", purchaseID), zap.Error(err))
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Не удалось доставить файл: "+err.Error()))
		return
	}
	db.MarkBeatFileSent(purchaseID)
	db.UpdateBeatPurchaseStatus(purchaseID, db.PurchaseStatusCompleted, nil)
	logger.LogAdminAction(message.From.ID, "deliver_beat_file", strconv.FormatUint(uint64(purchaseID), 10))
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID,
		"✅ Файл доставлен, покупка "+orders.FormatPurchaseNumber(purchaseID)+" завершена."))
}

func handleListPurchases(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	purchases := db.ListBeatPurchases()
	if len(purchases) == 0 {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Покупок пока нет."))
		return
	}
	var sb strings.Builder
	sb.WriteString("🎵 Покупки:\n\n")
	for _, p := range purchases {
		sb.WriteString(fmt.Sprintf("%s @%s — %s (%s)\n   %s, %s\n",
			orders.FormatPurchaseNumber(p.ID), p.Username, p.Beat, p.License,
			p.Status, p.CreatedAt.Format("02.01.2006 15:04")))
	}
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID, sb.String()))
}

// handleWaitingCard показывает покупки, ждущие реквизиты, с кнопкой отправки
func handleWaitingCard(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	var purchases []db.BeatPurchase
	db.DB.Where("waiting_card_details = ? AND card_details_sent = ?", true, false).
		Order("created_at").Find(&purchases)
	if len(purchases) == 0 {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Никто не ждет реквизиты."))
		return
	}
	for _, p := range purchases {
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf(
			"💳 %s @%s\n🎵 %s (%s)", orders.FormatPurchaseNumber(p.ID), p.Username, p.Beat, p.License))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📤 Отправить реквизиты",
					"send_card_"+strconv.FormatUint(uint64(p.ID), 10)),
			),
		)
		botapi.Send(msg)
	}
}

func sendToClient(userID int64, text string) {
	if storeBot == nil {
		return
	}
	if _, err := storeBot.Send(tgbotapi.NewMessage(userID, text)); err != nil {
		logger.Error("purchases_send_to_client", zap.Int64("user_id", userID), zap.Error(err))
	}
}
