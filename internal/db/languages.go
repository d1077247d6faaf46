package db

import (
	"time"

	"gorm.io/gorm/clause"
)

const DefaultLanguage = "ru"

// GetUserLanguage возвращает язык пользователя, по умолчанию "ru"
func GetUserLanguage(userID int64) string {
	var lang UserLanguage
	if err := DB.Where("user_id = ?", userID).First(&lang).Error; err != nil {
		return DefaultLanguage
	}
	return lang.Language
}

// SetUserLanguage сохраняет язык пользователя, last-write-wins
func SetUserLanguage(userID int64, language string) bool {
	err := DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "updated_at"}),
	}).Create(&UserLanguage{
		UserID:    userID,
		Language:  language,
		UpdatedAt: time.Now(),
	}).Error
	return err == nil
}

// GetAllUserLanguages возвращает словарь user_id -> язык
func GetAllUserLanguages() map[int64]string {
	var rows []UserLanguage
	DB.Find(&rows)
	result := make(map[int64]string, len(rows))
	for _, r := range rows {
		result[r.UserID] = r.Language
	}
	return result
}
