package admin

import (
	"os"
	"path/filepath"
	"time"

	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BackupDatabase снимает целостную копию SQLite-файла через VACUUM INTO
// и возвращает путь к созданному файлу
func BackupDatabase(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filename := filepath.Join(dir, "autobackup_"+time.Now().Format("20060102_150405")+".db")
	if err := db.DB.Exec("VACUUM INTO ?", filename).Error; err != nil {
		return "", err
	}
	return filename, nil
}

// CleanOldBackups удаляет копии старше maxAge в директории backups
func CleanOldBackups(dir string, maxAge time.Duration) error {
	files, err := filepath.Glob(filepath.Join(dir, "autobackup_*.db"))
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-maxAge)
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(f)
		}
	}
	return nil
}

// AutoBackupDatabase запускает бэкап и чистку, отправляет копию админу
func AutoBackupDatabase(bot *tgbotapi.BotAPI, adminID int64, dir string) {
	filename, err := BackupDatabase(dir)
	if err != nil {
		logger.NotifyAdmin("Ошибка резервного копирования: " + err.Error())
		return
	}
	CleanOldBackups(dir, 31*24*time.Hour)
	logger.Info("backup_created")
	doc := tgbotapi.NewDocument(adminID, tgbotapi.FilePath(filename))
	doc.Caption = "Автоматическая резервная копия БД"
	if _, err := bot.Send(doc); err != nil {
		logger.NotifyAdmin("Не удалось отправить резервную копию: " + err.Error())
	}
}
