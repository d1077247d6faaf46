package bot

import (
	"testing"

	"Beats-Telegram-bot/config"
)

func TestRateLimiter(t *testing.T) {
	r := NewRateLimiter()

	if r.IsLimited(1, "/beats") {
		t.Error("Первый вызов не должен лимитироваться")
	}
	if !r.IsLimited(1, "/beats") {
		t.Error("Повторный вызов сразу после первого должен лимитироваться")
	}
	// Другая команда и другой пользователь — независимые лимиты
	if r.IsLimited(1, "/order_beat") {
		t.Error("Другая команда того же пользователя лимитироваться не должна")
	}
	if r.IsLimited(2, "/beats") {
		t.Error("Другой пользователь лимитироваться не должен")
	}
}

func TestRateLimiterAdminExempt(t *testing.T) {
	old := config.AppCfg.AdminTelegramID
	config.AppCfg.AdminTelegramID = 999
	defer func() { config.AppCfg.AdminTelegramID = old }()

	r := NewRateLimiter()
	for i := 0; i < 5; i++ {
		if r.IsLimited(999, "/beats") {
			t.Fatal("Админ не должен лимитироваться")
		}
	}
}
