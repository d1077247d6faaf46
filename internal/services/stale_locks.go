package services

import (
	"time"

	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"
)

// Блокировка принятия из старой реализации живет не дольше 5 секунд
const acceptLockTTL = 5 * time.Second

// ClearStaleAcceptLocks снимает протухшие accept_lock. Само принятие заказа
// защищено атомарным условным UPDATE и блокировку не использует, но записи,
// оставленные старой реализацией, не должны висеть вечно.
func ClearStaleAcceptLocks() {
	cutoff := time.Now().Add(-acceptLockTTL)
	res := db.DB.Model(&db.Order{}).
		Where("accept_lock IS NOT NULL AND accept_lock < ?", cutoff).
		Update("accept_lock", nil)
	if res.Error != nil {
		logger.Error("clear_stale_accept_locks: " + res.Error.Error())
	}
}
