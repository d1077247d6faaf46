package orders

import (
	"testing"

	"Beats-Telegram-bot/internal/db"
)

func TestFormatOrderNumber(t *testing.T) {
	cases := []struct {
		id        uint
		orderType string
		want      string
	}{
		{1, db.OrderTypeCustomBeat, "CB-001"},
		{42, db.OrderTypeMixing, "MX-042"},
		{999, db.OrderTypeCustomBeat, "CB-999"},
		{1234, db.OrderTypeMixing, "MX-234"}, // от длинных ID остаются последние три цифры
	}
	for _, c := range cases {
		if got := FormatOrderNumber(c.id, c.orderType); got != c.want {
			t.Errorf("FormatOrderNumber(%d, %s) = %q, ожидалось %q", c.id, c.orderType, got, c.want)
		}
	}
}

func TestFormatPurchaseNumber(t *testing.T) {
	if got := FormatPurchaseNumber(7); got != "BP-007" {
		t.Errorf("FormatPurchaseNumber(7) = %q", got)
	}
	if got := FormatPurchaseNumber(1001); got != "BP-001" {
		t.Errorf("FormatPurchaseNumber(1001) = %q", got)
	}
}
