package db

import "time"

// SetSessionState запоминает, какой ввод ждём от пользователя.
// Запись видна всем трём процессам ботов и переживает рестарт.
func SetSessionState(userID int64, kind string, orderID uint, orderType, payload string) error {
	state := SessionState{
		UserID:    userID,
		Kind:      kind,
		OrderID:   orderID,
		OrderType: orderType,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}
	return DB.Save(&state).Error
}

// GetSessionState возвращает ожидаемый ввод. nil, если не ждём ничего.
func GetSessionState(userID int64, kind string) *SessionState {
	var state SessionState
	if err := DB.Where("user_id = ? AND kind = ?", userID, kind).First(&state).Error; err != nil {
		return nil
	}
	return &state
}

// ClearSessionState убирает ожидание ввода
func ClearSessionState(userID int64, kind string) {
	DB.Where("user_id = ? AND kind = ?", userID, kind).Delete(&SessionState{})
}
