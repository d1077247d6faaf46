package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	StoreBotToken     string `env:"STORE_BOT_TOKEN"`
	OrdersBotToken    string `env:"ORDERS_BOT_TOKEN"`
	PurchasesBotToken string `env:"PURCHASES_BOT_TOKEN"`
	AdminTelegramID   int64  `env:"ADMIN_TELEGRAM_ID"`
	OrdersChatID      int64  `env:"ORDERS_CHAT_ID"`
	DatabasePath      string `env:"DATABASE_PATH" envDefault:"bot_database.db"`
	BackupDir         string `env:"BACKUP_DIR" envDefault:"backups"`
	CardDetails       string `env:"CARD_DETAILS"`
}

var AppCfg AppConfig

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, relying on environment variables")
	}

	if err := env.Parse(&AppCfg); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	if AppCfg.StoreBotToken == "" || AppCfg.OrdersBotToken == "" || AppCfg.PurchasesBotToken == "" || AppCfg.AdminTelegramID == 0 {
		log.Fatal("Critical environment variables are missing. Bot will exit.")
	}
	// Если отдельный чат заказов не задан, шлём уведомления админу в личку
	if AppCfg.OrdersChatID == 0 {
		AppCfg.OrdersChatID = AppCfg.AdminTelegramID
	}
}
