package db

import (
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB открывает SQLite-файл и создает схему. Безопасно вызывать при каждом
// старте процесса: миграции только добавляют, ничего не удаляют.
func InitDB(path string) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		// Файл делят три процесса ботов, поэтому WAL и busy_timeout обязательны
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	// SQLite сериализует писателей сам, пул соединений только плодит SQLITE_BUSY
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	DB = db

	err = db.AutoMigrate(
		&Order{},
		&BeatPurchase{},
		&Partner{},
		&PartnerRequest{},
		&UserLanguage{},
		&SessionState{},
		&OrderPaymentLog{},
		&OrderPartnerNotification{},
	)
	if err != nil {
		log.Printf("AutoMigrate error: %v", err)
	}

	// Колонки, добавленные после первых установок (миграция для существующих БД)
	ensureColumn(&Order{}, "AcceptLock")
	ensureColumn(&Order{}, "ClientPrice")
	ensureColumn(&BeatPurchase{}, "WaitingCardDetails")
	ensureColumn(&BeatPurchase{}, "CardDetailsSent")
}

// ensureColumn добавляет колонку, если её нет. Ошибка "duplicate column"
// ожидаема при повторном запуске и не считается фатальной.
func ensureColumn(model interface{}, field string) {
	m := DB.Migrator()
	if m.HasColumn(model, field) {
		return
	}
	if err := m.AddColumn(model, field); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return
		}
		log.Printf("Ошибка миграции колонки %s: %v", field, err)
	}
}
