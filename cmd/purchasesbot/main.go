package main

import (
	"Beats-Telegram-bot/config"
	"Beats-Telegram-bot/internal/bot"
	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"
	"Beats-Telegram-bot/internal/purchasesbot"
	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"io"
	"log"
	"os"
)

func main() {
	config.LoadConfig()
	db.InitDB(config.AppCfg.DatabasePath)

	botapi, err := tgbotapi.NewBotAPI(config.AppCfg.PurchasesBotToken)
	if err != nil {
		log.Fatalf("Failed to create purchases bot: %v", err)
	}
	storeAPI, err := tgbotapi.NewBotAPI(config.AppCfg.StoreBotToken)
	if err != nil {
		log.Fatalf("Failed to create store bot instance: %v", err)
	}
	purchasesbot.Init(storeAPI)
	logger.InitNotifier(botapi, config.AppCfg.AdminTelegramID)

	// --- Логирование в файл и консоль ---
	logFile, err := os.OpenFile("purchasesbot.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("Не удалось открыть файл логов: %v", err)
	}
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	bot.StartPolling(botapi, purchasesbot.HandleUpdate)
}
