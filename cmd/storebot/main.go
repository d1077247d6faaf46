package main

import (
	"Beats-Telegram-bot/config"
	"Beats-Telegram-bot/internal/admin"
	"Beats-Telegram-bot/internal/bot"
	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"
	"Beats-Telegram-bot/internal/storebot"
	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"io"
	"log"
	"os"
)

func main() {
	config.LoadConfig()
	db.InitDB(config.AppCfg.DatabasePath)

	botapi, err := tgbotapi.NewBotAPI(config.AppCfg.StoreBotToken)
	if err != nil {
		log.Fatalf("Failed to create store bot: %v", err)
	}
	// Экземпляры соседних ботов нужны только для отправки, polling у них не запускается
	ordersAPI, err := tgbotapi.NewBotAPI(config.AppCfg.OrdersBotToken)
	if err != nil {
		log.Fatalf("Failed to create orders bot instance: %v", err)
	}
	purchasesAPI, err := tgbotapi.NewBotAPI(config.AppCfg.PurchasesBotToken)
	if err != nil {
		log.Fatalf("Failed to create purchases bot instance: %v", err)
	}
	storebot.Init(ordersAPI, purchasesAPI)
	logger.InitNotifier(botapi, config.AppCfg.AdminTelegramID)

	// --- Логирование в файл и консоль ---
	logFile, err := os.OpenFile("storebot.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("Не удалось открыть файл логов: %v", err)
	}
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Автоматический бэкап БД раз в сутки. Бэкап запускается только здесь,
	// чтобы три процесса не снимали копии одновременно.
	c := cron.New()
	c.AddFunc("0 3 * * *", func() {
		admin.AutoBackupDatabase(botapi, config.AppCfg.AdminTelegramID, config.AppCfg.BackupDir)
	})
	c.Start()

	bot.StartPolling(botapi, storebot.HandleUpdate)
}
