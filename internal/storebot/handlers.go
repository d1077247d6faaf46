package storebot

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

var (
	ordersBot    *tgbotapi.BotAPI // бот заказов — рассылка предложений и чат админа
	purchasesBot *tgbotapi.BotAPI // бот покупок — уведомления о новых покупках
	rateLimiter  = bot.NewRateLimiter()
)

// Init передает основному боту экземпляры ботов заказов и покупок
func Init(ordersAPI, purchasesAPI *tgbotapi.BotAPI) {
	ordersBot = ordersAPI
	purchasesBot = purchasesAPI
}

func HandleUpdate(botapi *tgbotapi.BotAPI, update tgbotapi.Update) {
	defer logger.NotifyOnPanic("storebot.HandleUpdate")

	if update.CallbackQuery != nil {
		handleCallback(botapi, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	userID := update.Message.From.ID

	if !strings.HasPrefix(update.Message.Text, "/") {
		// Ожидаемый ввод важнее любого текста
		if state := db.GetSessionState(userID, db.SessionWaitingClientPrice); state != nil {
			handleClientPriceInput(botapi, update.Message, state)
			return
		}
		if state := db.GetSessionState(userID, db.SessionWaitingDescription); state != nil {
			handleDescriptionInput(botapi, update.Message, state)
			return
		}
		if state := db.GetSessionState(userID, db.SessionWaitingBeat); state != nil {
			handleBeatInput(botapi, update.Message)
			return
		}
		// Чек об оплате активной покупки пересылаем на подтверждение
		if update.Message.Photo != nil || update.Message.Document != nil {
			handleReceipt(botapi, update.Message)
			return
		}
	}

	cmd := ""
	if fields := strings.Fields(update.Message.Text); len(fields) > 0 {
		cmd = fields[0]
	}
	if !admin.IsAdmin(userID) && rateLimiter.IsLimited(userID, cmd) {
		botapi.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Пожалуйста, не так быстро! Подождите пару секунд..."))
		return
	}

	keyboard := mainKeyboard()
	switch {
	case strings.HasPrefix(update.Message.Text, "/start"):
		text := "Привет! Здесь можно купить готовый бит, заказать бит или сведение.\n/beats — купить бит\n/order_beat — бит на заказ\n/order_mixing — сведение"
		if db.GetUserLanguage(userID) == "en" {
			text = "Hi! Here you can buy a ready-made beat or order a custom beat / mixing.\n/beats — buy a beat\n/order_beat — custom beat\n/order_mixing — mixing"
		}
		msg := tgbotapi.NewMessage(update.Message.Chat.ID, text)
		msg.ReplyMarkup = keyboard
		botapi.Send(msg)
	case strings.HasPrefix(update.Message.Text, "/beats"):
		db.SetSessionState(userID, db.SessionWaitingBeat, 0, "", "")
		botapi.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			"Пришли название или ссылку на бит, который хочешь купить:"))
	case strings.HasPrefix(update.Message.Text, "/order_beat"):
		db.SetSessionState(userID, db.SessionWaitingDescription, 0, db.OrderTypeCustomBeat, "")
		botapi.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			"Опиши, какой бит нужен (жанр, референсы, BPM). Можно приложить файл-референс:"))
	case strings.HasPrefix(update.Message.Text, "/order_mixing"):
		db.SetSessionState(userID, db.SessionWaitingDescription, 0, db.OrderTypeMixing, "")
		botapi.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			"Опиши задачу по сведению и приложи материал:"))
	case strings.HasPrefix(update.Message.Text, "/my_order"):
		handleMyOrder(botapi, update.Message)
	case strings.HasPrefix(update.Message.Text, "/cancel"):
		handleCancelPurchase(botapi, update.Message)
	case strings.HasPrefix(update.Message.Text, "/language"):
		handleLanguage(botapi, update.Message)
	case strings.HasPrefix(update.Message.Text, "/help"):
		msg := tgbotapi.NewMessage(update.Message.Chat.ID,
			"/beats — купить готовый бит\n/order_beat — заказать бит\n/order_mixing — заказать сведение\n/my_order — статус заказа\n/cancel — отменить покупку\n/language — сменить язык")
		msg.ReplyMarkup = keyboard
		botapi.Send(msg)
	default:
		if strings.HasPrefix(update.Message.Text, "/") {
			botapi.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Неизвестная команда. Используйте /help."))
		}
	}
}

func handleCallback(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	switch {
	case strings.HasPrefix(data, "license_"):
		handleLicensePick(botapi, cb)
	case strings.HasPrefix(data, "paymethod_"):
		handlePaymentMethod(botapi, cb)
	case strings.HasPrefix(data, "lang_"):
		lang := strings.TrimPrefix(data, "lang_")
		db.SetUserLanguage(cb.From.ID, lang)
		confirm := "Язык сохранен: " + lang
		if db.GetUserLanguage(cb.From.ID) == "en" {
			confirm = "Language saved: " + lang
		}
		botapi.Request(tgbotapi.NewCallback(cb.ID, confirm))
	}
}

// handleBeatInput — клиент назвал бит, показываем тарифы лицензий
func handleBeatInput(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	beat := strings.TrimSpace(message.Text)
	if beat == "" {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Пришли название или ссылку на бит:"))
		return
	}
	db.SetSessionState(message.From.ID, db.SessionWaitingBeat, 0, "", beat)
	msg := tgbotapi.NewMessage(message.Chat.ID, "Выбери лицензию для \""+beat+"\":")
	msg.ReplyMarkup = licenseKeyboard()
	botapi.Send(msg)
}

// handleLicensePick — клиент выбрал лицензию, создаем покупку
func handleLicensePick(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	idx, err := strconv.Atoi(strings.TrimPrefix(cb.Data, "license_"))
	if err != nil || idx < 0 || idx >= len(LicenseTiers) {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Ошибка выбора лицензии"))
		return
	}
	userID := cb.From.ID
	state := db.GetSessionState(userID, db.SessionWaitingBeat)
	if state == nil || state.Payload == "" {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Сначала пришли название бита: /beats"))
		return
	}
	tier := LicenseTiers[idx]
	username := cb.From.UserName
	if username == "" {
		username = "no_username"
	}
	purchase, err := db.CreateBeatPurchase(userID, username, state.Payload, tier.Name+" — "+tier.Price, tier.Price)
	if err != nil {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Не удалось создать покупку, попробуй позже."))
		return
	}
	db.ClearSessionState(userID, db.SessionWaitingBeat)

	msg := tgbotapi.NewMessage(cb.Message.Chat.ID, fmt.Sprintf(
		"Покупка %s создана!\n🎵 Бит: %s\n📜 Лицензия: %s\n\nВыбери способ оплаты:",
		orders.FormatPurchaseNumber(purchase.ID), purchase.Beat, purchase.License))
	msg.ReplyMarkup = paymentMethodKeyboard(purchase.ID)
	botapi.Send(msg)
	botapi.Request(tgbotapi.NewCallback(cb.ID, "Лицензия выбрана"))

	notifyPurchasesAdmin(fmt.Sprintf("🆕 Новая покупка %s\n👤 @%s (ID: %d)\n🎵 %s\n📜 %s",
		orders.FormatPurchaseNumber(purchase.ID), username, userID, purchase.Beat, purchase.License))
}

// handlePaymentMethod — клиент выбрал способ оплаты
func handlePaymentMethod(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	parts := strings.Split(strings.TrimPrefix(cb.Data, "paymethod_"), "_")
	if len(parts) != 2 {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Ошибка выбора способа оплаты"))
		return
	}
	purchaseID64, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Ошибка выбора способа оплаты"))
		return
	}
	purchaseID := uint(purchaseID64)
	method := parts[1]
	purchase := db.GetBeatPurchaseByID(purchaseID)
	if purchase == nil || purchase.UserID != cb.From.ID {
		botapi.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Покупка не найдена."))
		return
	}

	if method == "card" {
		// Реквизиты карты пересылает админ; повторную пересылку блокирует card_details_sent
		if purchase.CardDetailsSent {
			botapi.Request(tgbotapi.NewCallback(cb.ID, "Реквизиты уже отправлены"))
			return
		}
		db.UpdateBeatPurchaseStatus(purchaseID, purchase.Status, map[string]interface{}{
			"waiting_card_details": true,
		})
		botapi.Send(tgbotapi.NewMessage(cb.Message.Chat.ID,
			"💳 Запросил реквизиты карты. Пришлю их, как только админ подтвердит."))
		botapi.Request(tgbotapi.NewCallback(cb.ID, "Запрос отправлен"))
		notifyPurchasesAdmin(fmt.Sprintf("💳 Покупка %s ждет реквизиты карты (@%s)",
			orders.FormatPurchaseNumber(purchaseID), purchase.Username))
		return
	}

	botapi.Send(tgbotapi.NewMessage(cb.Message.Chat.ID,
		"После оплаты пришли сюда чек (скриншот или файл) — я передам его на проверку."))
	botapi.Request(tgbotapi.NewCallback(cb.ID, "Способ оплаты: "+method))
}

// handleReceipt пересылает чек клиента админу бота покупок с кнопками подтверждения
func handleReceipt(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	purchase := db.GetBeatPurchaseByUser(message.From.ID)
	if purchase == nil || purchase.Status != db.PurchaseStatusPendingPayment {
		return
	}
	var fileID string
	if message.Document != nil {
		fileID = message.Document.FileID
	} else if len(message.Photo) > 0 {
		fileID = message.Photo[len(message.Photo)-1].FileID
	}
	if fileID == "" {
		return
	}
	caption := fmt.Sprintf("⏳ Чек по покупке %s\n👤 @%s (ID: %d)\n🎵 %s\n📜 %s",
		orders.FormatPurchaseNumber(purchase.ID), purchase.Username, purchase.UserID, purchase.Beat, purchase.License)
	if purchasesBot != nil {
		err := bot.CopyFileBetweenBots(botapi, purchasesBot, fileID, config.AppCfg.AdminTelegramID, caption)
		if err != nil {
			logger.Error("forward_receipt", zap.Uint("purchase_id", purchase.ID), zap.Error(err))
			botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Не удалось передать чек, попробуй позже."))
			return
		}
		id := strconv.FormatUint(uint64(purchase.ID), 10)
		confirm := tgbotapi.NewMessage(config.AppCfg.AdminTelegramID,
			"Подтвердить оплату покупки "+orders.FormatPurchaseNumber(purchase.ID)+"?")
		confirm.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Оплата получена", "confirm_payment_"+id),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", "reject_payment_"+id),
			),
		)
		purchasesBot.Send(confirm)
	}
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "✅ Чек отправлен на проверку. Ожидай подтверждения."))
}

// handleDescriptionInput — клиент описал заказ, создаем и рассылаем исполнителям
func handleDescriptionInput(botapi *tgbotapi.BotAPI, message *tgbotapi.Message, state *db.SessionState) {
	description := strings.TrimSpace(message.Text)
	if description == "" && message.Caption != "" {
		description = strings.TrimSpace(message.Caption)
	}
	if description == "" {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Опиши заказ текстом:"))
		return
	}
	fileID := ""
	if message.Audio != nil {
		fileID = message.Audio.FileID
	} else if message.Document != nil {
		fileID = message.Document.FileID
	}
	username := message.From.UserName
	if username == "" {
		username = "no_username"
	}
	order, err := db.CreateOrder(state.OrderType, message.From.ID, username, description, fileID)
	if err != nil {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Не удалось создать заказ, попробуй позже."))
		return
	}
	db.ClearSessionState(message.From.ID, db.SessionWaitingDescription)

	typeText := "сведение"
	if order.Type == db.OrderTypeCustomBeat {
		typeText = "бит на заказ"
	}
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf(
		"✅ Заказ на %s создан! Номер заказа: %s\n\nЯ напишу, как только его возьмут в работу.",
		typeText, orders.FormatOrderNumber(order.ID, order.Type))))

	if ordersBot != nil {
		bot.FanOutNewOrder(ordersBot, order)
	}
}

// handleClientPriceInput — клиент назвал сумму выполненного заказа.
// Если сумма исполнителя уже есть, заказ завершается автоматически.
func handleClientPriceInput(botapi *tgbotapi.BotAPI, message *tgbotapi.Message, state *db.SessionState) {
	priceText := strings.TrimSpace(message.Text)
	if priceText == "" {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "❌ Пожалуйста, укажи сумму заказа:"))
		return
	}
	order, finalized, mismatch := orders.SetClientPrice(state.OrderID, state.OrderType, priceText)
	if order == nil {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "❌ Ошибка: заказ не найден."))
		db.ClearSessionState(message.From.ID, db.SessionWaitingClientPrice)
		return
	}
	db.ClearSessionState(message.From.ID, db.SessionWaitingClientPrice)
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "✅ Сумма сохранена. Спасибо!"))

	if !finalized {
		return
	}
	adminText := fmt.Sprintf("💰 Суммы заказа %s\n👨‍💼 Исполнитель указал: %s\n👤 Клиент указал: %s",
		orders.FormatOrderNumber(order.ID, order.Type), order.PartnerPrice, order.ClientPrice)
	if mismatch {
		adminText += "\n\n⚠️ Суммы не совпадают, нужна сверка!"
	}
	if ordersBot != nil {
		ordersBot.Send(tgbotapi.NewMessage(config.AppCfg.OrdersChatID, adminText))
	}
}

func handleMyOrder(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	order := db.GetOrderByUser(message.From.ID, "")
	purchase := db.GetBeatPurchaseByUser(message.From.ID)
	if order == nil && purchase == nil {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Активных заказов нет. /beats /order_beat /order_mixing"))
		return
	}
	var sb strings.Builder
	if order != nil {
		sb.WriteString(fmt.Sprintf("📦 Заказ %s: %s\n",
			orders.FormatOrderNumber(order.ID, order.Type), orderStatusText(order.Status)))
	}
	if purchase != nil {
		sb.WriteString(fmt.Sprintf("🎵 Покупка %s: %s\n",
			orders.FormatPurchaseNumber(purchase.ID), purchaseStatusText(purchase.Status)))
	}
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID, sb.String()))
}

func handleCancelPurchase(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	purchase := db.GetBeatPurchaseByUser(message.From.ID)
	if purchase == nil {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Активной покупки нет."))
		return
	}
	if db.UpdateBeatPurchaseStatus(purchase.ID, db.PurchaseStatusCancelledByClient, nil) == nil {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Покупку нельзя отменить."))
		return
	}
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID,
		"❌ Покупка "+orders.FormatPurchaseNumber(purchase.ID)+" отменена."))
	notifyPurchasesAdmin("❌ Клиент @" + purchase.Username + " отменил покупку " +
		orders.FormatPurchaseNumber(purchase.ID))
}

func handleLanguage(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, "Выбери язык / Choose language:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang_ru"),
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang_en"),
		),
	)
	botapi.Send(msg)
}

func notifyPurchasesAdmin(text string) {
	if purchasesBot == nil {
		return
	}
	if _, err := purchasesBot.Send(tgbotapi.NewMessage(config.AppCfg.AdminTelegramID, text)); err != nil {
		logger.Error("notify_purchases_admin", zap.Error(err))
	}
}

func orderStatusText(status string) string {
	switch status {
	case db.OrderStatusPending:
		return "⏳ Ожидает исполнителя"
	case db.OrderStatusAccepted, db.OrderStatusInProgress:
		return "🔨 В работе"
	case db.OrderStatusFirstPaymentReceived:
		return "💰 Ожидает вторую оплату"
	case db.OrderStatusAwaitingPrice:
		return "💰 Ожидает сумму"
	case db.OrderStatusCompleted:
		return "✅ Выполнен"
	case db.OrderStatusRejected:
		return "❌ Отклонен"
	case db.OrderStatusCancelled:
		return "❌ Отменен"
	}
	return status
}

func purchaseStatusText(status string) string {
	switch status {
	case db.PurchaseStatusPendingPayment:
		return "⏳ Ожидает оплату"
	case db.PurchaseStatusPaymentReceived:
		return "💰 Оплата получена, ждем файл"
	case db.PurchaseStatusCompleted:
		return "✅ Завершена"
	case db.PurchaseStatusPaymentRejected:
		return "❌ Оплата отклонена"
	case db.PurchaseStatusCancelledByClient:
		return "❌ Отменена"
	}
	return status
}
