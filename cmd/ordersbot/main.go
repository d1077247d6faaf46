package main

import (
	"Beats-Telegram-bot/config"
	"Beats-Telegram-bot/internal/bot"
	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"
	"Beats-Telegram-bot/internal/ordersbot"
	"Beats-Telegram-bot/internal/services"
	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"io"
	"log"
	"os"
)

func main() {
	config.LoadConfig()
	db.InitDB(config.AppCfg.DatabasePath)

	botapi, err := tgbotapi.NewBotAPI(config.AppCfg.OrdersBotToken)
	if err != nil {
		log.Fatalf("Failed to create orders bot: %v", err)
	}
	storeAPI, err := tgbotapi.NewBotAPI(config.AppCfg.StoreBotToken)
	if err != nil {
		log.Fatalf("Failed to create store bot instance: %v", err)
	}
	ordersbot.Init(storeAPI)
	logger.InitNotifier(botapi, config.AppCfg.AdminTelegramID)

	// --- Логирование в файл и консоль ---
	logFile, err := os.OpenFile("ordersbot.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("Не удалось открыть файл логов: %v", err)
	}
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	c := cron.New()
	// Снятие протухших блокировок принятия из старых записей
	c.AddFunc("@every 1m", services.ClearStaleAcceptLocks)
	// Напоминание о заказах без исполнителя (раз в сутки в 10:00)
	c.AddFunc("0 10 * * *", func() {
		services.RemindPendingOrders(botapi)
	})
	c.Start()

	bot.StartPolling(botapi, ordersbot.HandleUpdate)
}
