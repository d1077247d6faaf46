package main

import (
	"Beats-Telegram-bot/config"
	"Beats-Telegram-bot/internal/db"
	"flag"
	"log"
)

// Утилита полной очистки истории: удаляет заказы, покупки, журналы платежей
// и сбрасывает статистику партнеров. Сами партнеры и языки не трогаются.
func main() {
	yes := flag.Bool("yes", false, "подтвердить удаление без вопросов")
	flag.Parse()
	if !*yes {
		log.Fatal("Очистка удалит ВСЕ заказы и покупки безвозвратно. Запустите с флагом -yes для подтверждения.")
	}

	config.LoadConfig()
	db.InitDB(config.AppCfg.DatabasePath)

	tables := []string{
		"order_partner_notifications",
		"order_payment_logs",
		"session_states",
		"orders",
		"beats_purchases",
	}
	for _, table := range tables {
		if err := db.DB.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("Не удалось очистить %s: %v", table, err)
		}
	}
	// Нумерация заказов и покупок начинается заново
	db.DB.Exec("DELETE FROM sqlite_sequence WHERE name IN ('orders', 'beats_purchases', 'order_payment_logs')")

	reset := db.ResetPartnerStatistics()
	log.Printf("История очищена, статистика сброшена у %d партнеров.", reset)
}
