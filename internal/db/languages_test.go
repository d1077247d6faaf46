package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserLanguageDefault(t *testing.T) {
	setupTestDB(t)

	// Неизвестный пользователь получает язык по умолчанию
	require.Equal(t, DefaultLanguage, GetUserLanguage(12345))
}

func TestUserLanguageLastWriteWins(t *testing.T) {
	setupTestDB(t)

	require.True(t, SetUserLanguage(100, "en"))
	require.Equal(t, "en", GetUserLanguage(100))

	// Повторная запись перезаписывает, а не дублирует
	require.True(t, SetUserLanguage(100, "ru"))
	require.Equal(t, "ru", GetUserLanguage(100))

	var count int64
	DB.Model(&UserLanguage{}).Where("user_id = ?", 100).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestGetAllUserLanguages(t *testing.T) {
	setupTestDB(t)

	SetUserLanguage(100, "en")
	SetUserLanguage(101, "ru")

	langs := GetAllUserLanguages()
	require.Len(t, langs, 2)
	require.Equal(t, "en", langs[100])
	require.Equal(t, "ru", langs[101])
}
