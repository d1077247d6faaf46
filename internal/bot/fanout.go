package bot

import (
	"fmt"
	"strconv"

	"Beats-Telegram-bot/config"
	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"
	"Beats-Telegram-bot/internal/orders"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// FormatOrderOffer — текст предложения заказа для админа и партнеров
func FormatOrderOffer(order *db.Order) string {
	typeText := "Сведение"
	if order.Type == db.OrderTypeCustomBeat {
		typeText = "Бит на заказ"
	}
	text := fmt.Sprintf(
		"🆕 Новый заказ!\n\n📦 %s %s\n👤 Клиент: @%s (ID: %d)\n📝 Описание: %s",
		typeText, orders.FormatOrderNumber(order.ID, order.Type), order.Username, order.UserID, order.Description,
	)
	if order.FileID != "" {
		text += "\n📎 Клиент приложил референс"
	}
	return text
}

// OfferKeyboard — кнопки Принять/Отклонить под предложением заказа
func OfferKeyboard(order *db.Order, forAdmin bool) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatUint(uint64(order.ID), 10)
	accept := "partner_accept_" + order.Type + "_" + id
	if forAdmin {
		accept = "admin_accept_" + order.Type + "_" + id
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Принять", accept),
		),
	}
	if forAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", "reject_order_"+order.Type+"_"+id),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// FanOutNewOrder рассылает новый заказ в чат заказов и всем активным партнерам.
// message_id каждого предложения сохраняется, чтобы после принятия заказа
// отредактировать устаревшие сообщения у остальных.
func FanOutNewOrder(ordersBot *tgbotapi.BotAPI, order *db.Order) {
	text := FormatOrderOffer(order)

	adminMsg := tgbotapi.NewMessage(config.AppCfg.OrdersChatID, text)
	adminMsg.ReplyMarkup = OfferKeyboard(order, true)
	if _, err := ordersBot.Send(adminMsg); err != nil {
		logger.Error("fanout_admin", zap.Uint("order_id", order.ID), zap.Error(err))
	}

	for _, partner := range db.GetActivePartners() {
		msg := tgbotapi.NewMessage(partner.UserID, text)
		msg.ReplyMarkup = OfferKeyboard(order, false)
		sent, err := ordersBot.Send(msg)
		if err != nil {
			logger.Error("fanout_partner", zap.Uint("order_id", order.ID), zap.Int64("partner_id", partner.UserID), zap.Error(err))
			continue
		}
		if err := db.SaveOrderPartnerNotification(order.ID, partner.UserID, sent.MessageID); err != nil {
			logger.Error("fanout_save_notification", zap.Uint("order_id", order.ID), zap.Error(err))
		}
	}
}

// RetractPartnerOffers редактирует предложения у всех партнеров, кроме принявшего:
// кнопки убираются, показывается, кем занят заказ.
func RetractPartnerOffers(ordersBot *tgbotapi.BotAPI, order *db.Order, acceptedBy int64) {
	taken := "Заказ принят другим исполнителем"
	if order.PartnerUsername != "" {
		taken = "Заказ принят: @" + order.PartnerUsername
	}
	text := FormatOrderOffer(order) + "\n\n" + taken

	for _, n := range db.GetOrderPartnerNotifications(order.ID) {
		if n.PartnerID == acceptedBy {
			continue
		}
		edit := tgbotapi.NewEditMessageText(n.PartnerID, n.MessageID, text)
		if _, err := ordersBot.Send(edit); err != nil {
			logger.Error("retract_offer", zap.Uint("order_id", order.ID), zap.Int64("partner_id", n.PartnerID), zap.Error(err))
		}
	}
}
