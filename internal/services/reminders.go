package services

import (
	"fmt"
	"time"

	"Beats-Telegram-bot/config"
	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/orders"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RemindPendingOrders напоминает админу о заказах, которые висят без принятия
// дольше суток
func RemindPendingOrders(bot *tgbotapi.BotAPI) {
	cutoff := time.Now().Add(-24 * time.Hour)
	var stale []db.Order
	db.DB.Where("status = ? AND created_at < ?", db.OrderStatusPending, cutoff).Find(&stale)
	if len(stale) == 0 {
		return
	}
	text := fmt.Sprintf("⏳ Заказы без исполнителя (%d):\n", len(stale))
	for _, o := range stale {
		text += fmt.Sprintf("%s | @%s | создан %s\n",
			orders.FormatOrderNumber(o.ID, o.Type), o.Username, o.CreatedAt.Format("02.01 15:04"))
	}
	bot.Send(tgbotapi.NewMessage(config.AppCfg.OrdersChatID, text))
}
