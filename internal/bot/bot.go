package bot

import (
	"log"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateHandler обрабатывает один апдейт Telegram
type UpdateHandler func(botapi *tgbotapi.BotAPI, update tgbotapi.Update)

// StartPolling запускает long-polling цикл бота с переданным обработчиком
func StartPolling(botapi *tgbotapi.BotAPI, handler UpdateHandler) {
	log.Printf("Authorized on account %s", botapi.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botapi.GetUpdatesChan(u)

	for update := range updates {
		handler(botapi, update)
	}
}
