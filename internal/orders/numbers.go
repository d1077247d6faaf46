package orders

import (
	"fmt"

	"Beats-Telegram-bot/internal/db"
)

// FormatOrderNumber форматирует номер заказа: CB-001 (Custom Beat), MX-001 (Mixing).
// Для ID >= 1000 берутся последние три цифры.
func FormatOrderNumber(orderID uint, orderType string) string {
	prefix := "MX"
	if orderType == db.OrderTypeCustomBeat {
		prefix = "CB"
	}
	return fmt.Sprintf("%s-%s", prefix, shortNumber(orderID))
}

// FormatPurchaseNumber форматирует номер покупки: BP-001
func FormatPurchaseNumber(purchaseID uint) string {
	return fmt.Sprintf("BP-%s", shortNumber(purchaseID))
}

func shortNumber(id uint) string {
	if id < 1000 {
		return fmt.Sprintf("%03d", id)
	}
	s := fmt.Sprintf("%d", id)
	return s[len(s)-3:]
}
