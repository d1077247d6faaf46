package ordersbot

import (
	"strconv"

	"Beats-Telegram-bot/internal/db"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// partnerOrderKeyboard — кнопки принявшего партнера: завершить или отменить
func partnerOrderKeyboard(order *db.Order) tgbotapi.InlineKeyboardMarkup {
	suffix := order.Type + "_" + strconv.FormatUint(uint64(order.ID), 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Заказ выполнен", "mark_completed_"+suffix),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить заказ", "cancel_order_"+suffix),
		),
	)
}

// adminOrderKeyboard — кнопки админа: этапы оплаты 50/50 или 100%, завершение, отмена
func adminOrderKeyboard(order *db.Order) tgbotapi.InlineKeyboardMarkup {
	suffix := order.Type + "_" + strconv.FormatUint(uint64(order.ID), 10)
	rows := [][]tgbotapi.InlineKeyboardButton{}
	switch order.Status {
	case db.OrderStatusInProgress:
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💰 Первая оплата 50%", "first_payment_"+suffix),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💰 Оплата 100%", "full_payment_"+suffix),
			),
		)
	case db.OrderStatusFirstPaymentReceived:
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💰 Вторая оплата 50%", "second_payment_"+suffix),
			),
		)
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Заказ выполнен", "mark_completed_"+suffix),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить заказ", "cancel_order_"+suffix),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
