package ordersbot

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
	storeBot    *tgbotapi.BotAPI // основной бот магазина — через него пишем клиентам
	rateLimiter = bot.NewRateLimiter()
)

// Init передает боту заказов экземпляр основного бота для связи с клиентами
func Init(storeAPI *tgbotapi.BotAPI) {
	storeBot = storeAPI
}

// parseOrderCallback разбирает callback-данные вида <prefix><type>_<id>.
// Тип заказа сам содержит подчеркивание (custom_beat), поэтому без префиксного разбора не обойтись.
func parseOrderCallback(data, prefix string) (orderType string, orderID uint, ok bool) {
	rest := strings.TrimPrefix(data, prefix)
	for _, t := range []string{db.OrderTypeCustomBeat, db.OrderTypeMixing} {
		if strings.HasPrefix(rest, t+"_") {
			id, err := strconv.ParseUint(strings.TrimPrefix(rest, t+"_"), 10, 64)
			if err != nil {
				return "", 0, false
			}
			return t, uint(id), true
		}
	}
	return "", 0, false
}

func answer(botapi *tgbotapi.BotAPI, callbackID, text string) {
	botapi.Request(tgbotapi.NewCallbackWithAlert(callbackID, text))
}

func HandleUpdate(botapi *tgbotapi.BotAPI, update tgbotapi.Update) {
	defer logger.NotifyOnPanic("ordersbot.HandleUpdate")

	if update.CallbackQuery != nil {
		handleCallback(botapi, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	userID := update.Message.From.ID

	// Ожидаемый ввод суммы от исполнителя имеет приоритет над командами
	if !strings.HasPrefix(update.Message.Text, "/") {
		if state := db.GetSessionState(userID, db.SessionWaitingPartnerPrice); state != nil {
			handlePartnerPriceInput(botapi, update.Message, state)
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
	if admin.IsAdmin(userID) && strings.HasPrefix(update.Message.Text, "/admin_") {
		admin.HandleAdminCommand(botapi, &update)
		return
	}

	switch {
	case strings.HasPrefix(update.Message.Text, "/start"):
		botapi.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			"Это бот заказов. Партнеры получают здесь предложения заказов.\n/my_orders — мои заказы\n/become_partner — подать заявку на партнерство"))
	case strings.HasPrefix(update.Message.Text, "/my_orders"):
		handleMyOrders(botapi, update.Message)
	case strings.HasPrefix(update.Message.Text, "/become_partner"):
		handleBecomePartner(botapi, update.Message)
	case strings.HasPrefix(update.Message.Text, "/help"):
		botapi.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			"/my_orders — мои заказы\n/become_partner — заявка на партнерство\n/help — справка"))
	}
}

func handleCallback(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	switch {
	case strings.HasPrefix(data, "partner_accept_"):
		handlePartnerAccept(botapi, cb)
	case strings.HasPrefix(data, "admin_accept_"):
		handleAdminAccept(botapi, cb)
	case strings.HasPrefix(data, "reject_order_"):
		handleRejectOrder(botapi, cb)
	case strings.HasPrefix(data, "first_payment_"):
		handleFirstPayment(botapi, cb)
	case strings.HasPrefix(data, "second_payment_"):
		handleSecondPayment(botapi, cb)
	case strings.HasPrefix(data, "full_payment_"):
		handleFullPayment(botapi, cb)
	case strings.HasPrefix(data, "mark_completed_"):
		handleMarkCompleted(botapi, cb)
	case strings.HasPrefix(data, "cancel_order_"):
		handleCancelOrder(botapi, cb)
	case strings.HasPrefix(data, "approve_partner_"):
		handleApprovePartner(botapi, cb)
	case strings.HasPrefix(data, "reject_partner_"):
		handleRejectPartner(botapi, cb)
	}
}

// handlePartnerAccept — партнер принимает заказ. Гонку между партнерами и
// админом решает атомарный Claim: выигрывает ровно один.
func handlePartnerAccept(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	partnerID := cb.From.ID
	partner := db.GetPartner(partnerID)
	if partner == nil {
		answer(botapi, cb.ID, "Вы не являетесь партнером.")
		return
	}
	orderType, orderID, ok := parseOrderCallback(cb.Data, "partner_accept_")
	if !ok {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}

	order, claimed := orders.Claim(orderID, orderType, partnerID, partner.Username)
	if !claimed {
		// Проигравший видит актуальное состояние заказа
		if current := db.GetOrderByID(orderID, orderType); current != nil {
			edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID,
				bot.FormatOrderOffer(current)+"\n\nЗаказ принят другим исполнителем")
			botapi.Send(edit)
		}
		answer(botapi, cb.ID, "Заказ принят другим исполнителем.")
		return
	}

	// Сообщение победителя: кнопки ведения заказа
	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
		bot.FormatOrderOffer(order)+"\n\n✅ Заказ принят тобой",
		partnerOrderKeyboard(order))
	botapi.Send(edit)
	answer(botapi, cb.ID, "Заказ принят! Свяжись с клиентом для обсуждения деталей.")

	// Остальные партнеры видят, что заказ занят
	bot.RetractPartnerOffers(botapi, order, partnerID)

	// Уведомляем клиента через основной бот
	notifyClientAccepted(order)

	// Уведомляем админа
	adminText := fmt.Sprintf("✅ Заказ %s принят партнером @%s (ID: %d)\nКлиент: @%s (ID: %d)",
		orders.FormatOrderNumber(order.ID, order.Type), partner.Username, partnerID, order.Username, order.UserID)
	botapi.Send(tgbotapi.NewMessage(config.AppCfg.OrdersChatID, adminText))
}

func handleAdminAccept(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	if !admin.IsAdmin(cb.From.ID) {
		answer(botapi, cb.ID, "У вас нет прав для этого действия.")
		return
	}
	orderType, orderID, ok := parseOrderCallback(cb.Data, "admin_accept_")
	if !ok {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}
	order, claimed := orders.ClaimByAdmin(orderID, orderType)
	if !claimed {
		answer(botapi, cb.ID, "Заказ уже принят.")
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
		bot.FormatOrderOffer(order)+"\n\n✅ Заказ взят админом",
		adminOrderKeyboard(order))
	botapi.Send(edit)
	answer(botapi, cb.ID, "Заказ взят в работу.")
	bot.RetractPartnerOffers(botapi, order, 0)
	notifyClientAccepted(order)
}

func handleRejectOrder(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	if !admin.IsAdmin(cb.From.ID) {
		answer(botapi, cb.ID, "У вас нет прав для этого действия.")
		return
	}
	orderType, orderID, ok := parseOrderCallback(cb.Data, "reject_order_")
	if !ok {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}
	order, rejected := orders.Reject(orderID, orderType)
	if !rejected {
		answer(botapi, cb.ID, "Заказ нельзя отклонить: он уже не в ожидании.")
		return
	}
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID,
		bot.FormatOrderOffer(order)+"\n\n❌ Заказ отклонен")
	botapi.Send(edit)
	answer(botapi, cb.ID, "Заказ отклонен.")
	bot.RetractPartnerOffers(botapi, order, 0)
	sendToClient(order.UserID, fmt.Sprintf("К сожалению, заказ %s отклонен.",
		orders.FormatOrderNumber(order.ID, order.Type)))
}

func handleFirstPayment(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	if !admin.IsAdmin(cb.From.ID) {
		answer(botapi, cb.ID, "Оплату подтверждает только админ.")
		return
	}
	orderType, orderID, ok := parseOrderCallback(cb.Data, "first_payment_")
	if !ok {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}
	order, confirmed := orders.ConfirmFirstPayment(orderID, orderType, "")
	if !confirmed {
		answer(botapi, cb.ID, "Первая оплата уже подтверждена или заказ не в работе.")
		return
	}
	answer(botapi, cb.ID, "Первая оплата (50%) подтверждена.")
	sendToClient(order.UserID, fmt.Sprintf("💰 Первая оплата по заказу %s получена! Работа начинается.",
		orders.FormatOrderNumber(order.ID, order.Type)))
	notifyPartner(botapi, order, "💰 Первая оплата по заказу "+orders.FormatOrderNumber(order.ID, order.Type)+" получена, можно начинать работу.")
}

func handleSecondPayment(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	if !admin.IsAdmin(cb.From.ID) {
		answer(botapi, cb.ID, "Оплату подтверждает только админ.")
		return
	}
	orderType, orderID, ok := parseOrderCallback(cb.Data, "second_payment_")
	if !ok {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}
	order, confirmed := orders.ConfirmSecondPayment(orderID, orderType, "")
	if !confirmed {
		answer(botapi, cb.ID, "Вторая оплата возможна только после первой.")
		return
	}
	answer(botapi, cb.ID, "Вторая оплата подтверждена. Заказ завершен.")
	sendToClient(order.UserID, fmt.Sprintf("✅ Заказ %s полностью оплачен и завершен. Спасибо!",
		orders.FormatOrderNumber(order.ID, order.Type)))
	notifyPartner(botapi, order, "✅ Заказ "+orders.FormatOrderNumber(order.ID, order.Type)+" полностью оплачен и завершен.")
}

func handleFullPayment(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	if !admin.IsAdmin(cb.From.ID) {
		answer(botapi, cb.ID, "Оплату подтверждает только админ.")
		return
	}
	orderType, orderID, ok := parseOrderCallback(cb.Data, "full_payment_")
	if !ok {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}
	order, confirmed := orders.ConfirmFullPayment(orderID, orderType, "")
	if !confirmed {
		answer(botapi, cb.ID, "Заказ не в работе.")
		return
	}
	answer(botapi, cb.ID, "Полная оплата подтверждена. Заказ завершен.")
	sendToClient(order.UserID, fmt.Sprintf("✅ Заказ %s полностью оплачен и завершен. Спасибо!",
		orders.FormatOrderNumber(order.ID, order.Type)))
}

func handleMarkCompleted(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	orderType, orderID, ok := parseOrderCallback(cb.Data, "mark_completed_")
	if !ok {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}
	userID := cb.From.ID

	if admin.IsAdmin(userID) {
		order, done := orders.MarkCompletedByAdmin(orderID, orderType)
		if !done {
			answer(botapi, cb.ID, "Этот заказ уже завершен, отменен или ожидает суммы.")
			return
		}
		answer(botapi, cb.ID, "Заказ отмечен как выполненный.")
		sendToClient(order.UserID, fmt.Sprintf("✅ Твой заказ %s выполнен!",
			orders.FormatOrderNumber(order.ID, order.Type)))
		return
	}

	// Партнер: заказ уходит в awaiting_price, спрашиваем сумму
	order, done := orders.MarkCompletedByPartner(orderID, orderType, userID)
	if !done {
		answer(botapi, cb.ID, "У вас нет прав или заказ уже завершен.")
		return
	}
	if err := db.SetSessionState(userID, db.SessionWaitingPartnerPrice, orderID, orderType, ""); err != nil {
		logger.Error("set_session_state", zap.Error(err))
	}
	// Кнопки убираем: для партнера заказ выполнен
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID,
		bot.FormatOrderOffer(order)+"\n\n✅ Заказ выполнен, ожидается сумма")
	botapi.Send(edit)
	botapi.Send(tgbotapi.NewMessage(cb.Message.Chat.ID,
		fmt.Sprintf("✅ Заказ %s отмечен как выполненный!\n\nНапиши сумму заказа:",
			orders.FormatOrderNumber(order.ID, order.Type))))
	answer(botapi, cb.ID, "Укажи сумму заказа.")
}

func handleCancelOrder(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	orderType, orderID, ok := parseOrderCallback(cb.Data, "cancel_order_")
	if !ok {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}
	order := db.GetOrderByID(orderID, orderType)
	if order == nil {
		answer(botapi, cb.ID, "Ошибка: заказ не найден.")
		return
	}
	userID := cb.From.ID
	isClaimingPartner := order.PartnerID != nil && *order.PartnerID == userID
	if !admin.IsAdmin(userID) && !isClaimingPartner {
		answer(botapi, cb.ID, "У вас нет прав для этого действия.")
		return
	}
	cancelled, done := orders.Cancel(orderID, orderType)
	if !done {
		answer(botapi, cb.ID, "Заказ нельзя отменить в текущем статусе.")
		return
	}
	answer(botapi, cb.ID, "❌ Заказ отменен.")
	sendToClient(cancelled.UserID, fmt.Sprintf("❌ Заказ %s отменен.",
		orders.FormatOrderNumber(cancelled.ID, cancelled.Type)))
}

func handleApprovePartner(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	if !admin.IsAdmin(cb.From.ID) {
		answer(botapi, cb.ID, "У вас нет прав для этого действия.")
		return
	}
	userID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "approve_partner_"), 10, 64)
	if err != nil {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}
	if !db.ApprovePartnerRequest(userID, cb.From.ID) {
		answer(botapi, cb.ID, "Заявка не найдена.")
		return
	}
	answer(botapi, cb.ID, "Партнер одобрен.")
	botapi.Send(tgbotapi.NewMessage(userID,
		"🎉 Твоя заявка на партнерство одобрена! Теперь ты получаешь предложения заказов."))
}

func handleRejectPartner(botapi *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	if !admin.IsAdmin(cb.From.ID) {
		answer(botapi, cb.ID, "У вас нет прав для этого действия.")
		return
	}
	userID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "reject_partner_"), 10, 64)
	if err != nil {
		answer(botapi, cb.ID, "Ошибка: неверный формат данных.")
		return
	}
	if !db.RejectPartnerRequest(userID, cb.From.ID) {
		answer(botapi, cb.ID, "Заявка не найдена.")
		return
	}
	answer(botapi, cb.ID, "Заявка отклонена.")
	botapi.Send(tgbotapi.NewMessage(userID, "К сожалению, заявка на партнерство отклонена."))
}

// handlePartnerPriceInput — исполнитель назвал сумму выполненного заказа.
// Дальше сумму независимо называет клиент (через основной бот).
func handlePartnerPriceInput(botapi *tgbotapi.BotAPI, message *tgbotapi.Message, state *db.SessionState) {
	priceText := strings.TrimSpace(message.Text)
	if priceText == "" {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "❌ Пожалуйста, укажи сумму заказа:"))
		return
	}
	order, ok := orders.SetPartnerPrice(state.OrderID, state.OrderType, priceText)
	if !ok {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "❌ Ошибка: заказ не найден."))
		db.ClearSessionState(message.From.ID, db.SessionWaitingPartnerPrice)
		return
	}
	db.ClearSessionState(message.From.ID, db.SessionWaitingPartnerPrice)
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("✅ Сумма заказа %s сохранена: %s",
			orders.FormatOrderNumber(order.ID, order.Type), priceText)))

	// Теперь просим сумму у клиента
	if err := db.SetSessionState(order.UserID, db.SessionWaitingClientPrice, order.ID, order.Type, ""); err != nil {
		logger.Error("set_client_price_session", zap.Error(err))
	}
	sendToClient(order.UserID, fmt.Sprintf("✅ Твой заказ %s выполнен!\n\nНапиши сумму заказа:",
		orders.FormatOrderNumber(order.ID, order.Type)))

	adminText := fmt.Sprintf("💰 Исполнитель указал сумму заказа %s: %s\nКлиент: ⏳ ожидает указания суммы",
		orders.FormatOrderNumber(order.ID, order.Type), priceText)
	botapi.Send(tgbotapi.NewMessage(config.AppCfg.OrdersChatID, adminText))
}

func handleMyOrders(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	userID := message.From.ID
	if db.GetPartner(userID) == nil && !admin.IsAdmin(userID) {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "Вы не являетесь партнером."))
		return
	}
	all := db.ListOrders("")
	var mine []db.Order
	for _, o := range all {
		if admin.IsAdmin(userID) || (o.PartnerID != nil && *o.PartnerID == userID) {
			mine = append(mine, o)
		}
	}
	if len(mine) == 0 {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID, "У тебя пока нет заказов."))
		return
	}
	var sb strings.Builder
	sb.WriteString("Твои заказы:\n")
	for _, o := range mine {
		status := o.Status
		// Партнер, указавший сумму, считает заказ выполненным
		if o.Status == db.OrderStatusAwaitingPrice && o.PartnerPrice != "" {
			status = "✅ выполнен"
		}
		sb.WriteString(fmt.Sprintf("%s | @%s | %s\n",
			orders.FormatOrderNumber(o.ID, o.Type), o.Username, status))
	}
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID, sb.String()))
}

func handleBecomePartner(botapi *tgbotapi.BotAPI, message *tgbotapi.Message) {
	userID := message.From.ID
	username := message.From.UserName
	if username == "" {
		username = "no_username"
	}
	text := strings.TrimSpace(strings.TrimPrefix(message.Text, "/become_partner"))
	if !db.CreatePartnerRequest(userID, username, message.From.FirstName, text) {
		botapi.Send(tgbotapi.NewMessage(message.Chat.ID,
			"Заявка уже подана или ты уже партнер."))
		return
	}
	botapi.Send(tgbotapi.NewMessage(message.Chat.ID,
		"✅ Заявка отправлена! Админ рассмотрит её в ближайшее время."))

	adminMsg := tgbotapi.NewMessage(config.AppCfg.OrdersChatID,
		fmt.Sprintf("Новая заявка на партнерство\n@%s (ID: %d)\nСообщение: %s", username, userID, text))
	id := strconv.FormatInt(userID, 10)
	adminMsg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Одобрить", "approve_partner_"+id),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", "reject_partner_"+id),
		),
	)
	botapi.Send(adminMsg)
}

// sendToClient пишет клиенту через основной бот магазина: клиент общается
// именно с ним, а не с ботом заказов
func sendToClient(userID int64, text string) {
	if storeBot == nil {
		return
	}
	if _, err := storeBot.Send(tgbotapi.NewMessage(userID, text)); err != nil {
		logger.Error("send_to_client", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func notifyClientAccepted(order *db.Order) {
	performer := "админ"
	if order.PartnerUsername != "" {
		performer = "@" + order.PartnerUsername
	}
	typeText := "сведение"
	if order.Type == db.OrderTypeCustomBeat {
		typeText = "бит"
	}
	sendToClient(order.UserID, fmt.Sprintf(
		"✅ Отлично! Я принял твой заказ на %s. Номер заказа: %s\n\n👨‍💼 Исполнитель: %s\n\nЯ свяжусь с тобой для обсуждения деталей.",
		typeText, orders.FormatOrderNumber(order.ID, order.Type), performer))
}

// notifyPartner пишет принявшему партнеру через бот заказов
func notifyPartner(botapi *tgbotapi.BotAPI, order *db.Order, text string) {
	if order.PartnerID == nil {
		return
	}
	if _, err := botapi.Send(tgbotapi.NewMessage(*order.PartnerID, text)); err != nil {
		logger.Error("notify_partner", zap.Int64("partner_id", *order.PartnerID), zap.Error(err))
	}
}
