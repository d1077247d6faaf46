package db

import (
	"errors"
	"time"

	"Beats-Telegram-bot/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddPartner добавляет партнера. false, если такой уже есть.
func AddPartner(userID int64, username, name string) bool {
	if name == "" {
		name = username
	}
	ok := false
	err := DB.Transaction(func(tx *gorm.DB) error {
		var existing Partner
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if err == nil {
			return nil // уже существует
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&Partner{
			UserID:   userID,
			Username: username,
			Name:     name,
			Type:     "partner",
			Active:   true,
		}).Error; err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		logger.Error("add_partner", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return ok
}

// RemovePartner удаляет партнера. false, если не найден.
func RemovePartner(userID int64) bool {
	res := DB.Where("user_id = ?", userID).Delete(&Partner{})
	return res.Error == nil && res.RowsAffected > 0
}

// GetPartner возвращает партнера по ID. nil, если не найден.
func GetPartner(userID int64) *Partner {
	var partner Partner
	if err := DB.Where("user_id = ?", userID).First(&partner).Error; err != nil {
		return nil
	}
	return &partner
}

// GetActivePartners возвращает всех активных партнеров
func GetActivePartners() []Partner {
	var partners []Partner
	DB.Where("active = ?", true).Find(&partners)
	return partners
}

// SetPartnerActive включает/выключает партнера в рассылке заказов
func SetPartnerActive(userID int64, active bool) bool {
	res := DB.Model(&Partner{}).Where("user_id = ?", userID).Update("active", active)
	return res.Error == nil && res.RowsAffected > 0
}

// IncrementPartnerOrders увеличивает счетчик заказов партнера.
// kind — "accepted" или "completed".
func IncrementPartnerOrders(userID int64, kind string) {
	var column string
	switch kind {
	case "accepted":
		column = "orders_accepted"
	case "completed":
		column = "orders_completed"
	default:
		return
	}
	DB.Model(&Partner{}).Where("user_id = ?", userID).
		Update(column, gorm.Expr(column+" + 1"))
}

// ========== Система регистрации партнеров ==========

// CreatePartnerRequest создает заявку на регистрацию. false, если у пользователя
// уже есть pending-заявка или он уже партнер. Проверки и вставка идут в одной
// транзакции, чтобы исключить гонку между проверкой и вставкой.
func CreatePartnerRequest(userID int64, username, name, message string) bool {
	if name == "" {
		name = username
	}
	ok := false
	err := DB.Transaction(func(tx *gorm.DB) error {
		var pending PartnerRequest
		err := tx.Where("user_id = ? AND status = ?", userID, RequestStatusPending).First(&pending).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		var partner Partner
		err = tx.Where("user_id = ?", userID).First(&partner).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&PartnerRequest{
			UserID:    userID,
			CreatedAt: time.Now(),
			Username:  username,
			Name:      name,
			Type:      "partner",
			Message:   message,
			Status:    RequestStatusPending,
		}).Error; err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		logger.Error("create_partner_request", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return ok
}

// GetPartnerRequest возвращает pending-заявку пользователя. nil, если её нет.
func GetPartnerRequest(userID int64) *PartnerRequest {
	var request PartnerRequest
	err := DB.Where("user_id = ? AND status = ?", userID, RequestStatusPending).
		Order("created_at DESC").First(&request).Error
	if err != nil {
		return nil
	}
	return &request
}

// GetPendingRequests возвращает все ожидающие заявки, новые первыми
func GetPendingRequests() []PartnerRequest {
	var requests []PartnerRequest
	DB.Where("status = ?", RequestStatusPending).Order("created_at DESC").Find(&requests)
	return requests
}

// ApprovePartnerRequest одобряет заявку: помечает её approved и вставляет партнера
// в одной транзакции. Идемпотентна, если партнер уже существует.
// false, если pending-заявки нет.
func ApprovePartnerRequest(userID int64, adminID int64) bool {
	ok := false
	err := DB.Transaction(func(tx *gorm.DB) error {
		var request PartnerRequest
		err := tx.Where("user_id = ? AND status = ?", userID, RequestStatusPending).
			Order("created_at DESC").First(&request).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		now := time.Now()
		err = tx.Model(&PartnerRequest{}).
			Where("user_id = ? AND created_at = ?", request.UserID, request.CreatedAt).
			Updates(map[string]interface{}{
				"status":      RequestStatusApproved,
				"reviewed_at": now,
				"reviewed_by": adminID,
			}).Error
		if err != nil {
			return err
		}

		var partner Partner
		err = tx.Where("user_id = ?", request.UserID).First(&partner).Error
		if err == nil {
			ok = true // партнер уже есть, заявка просто закрыта
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&Partner{
			UserID:   request.UserID,
			Username: request.Username,
			Name:     request.Name,
			Type:     request.Type,
			Active:   true,
		}).Error; err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		logger.Error("approve_partner_request", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return ok
}

// RejectPartnerRequest отклоняет pending-заявку. false, если её нет.
func RejectPartnerRequest(userID int64, adminID int64) bool {
	var request PartnerRequest
	err := DB.Where("user_id = ? AND status = ?", userID, RequestStatusPending).
		Order("created_at DESC").First(&request).Error
	if err != nil {
		return false
	}
	res := DB.Model(&PartnerRequest{}).
		Where("user_id = ? AND created_at = ?", request.UserID, request.CreatedAt).
		Updates(map[string]interface{}{
			"status":      RequestStatusRejected,
			"reviewed_at": time.Now(),
			"reviewed_by": adminID,
		})
	return res.Error == nil && res.RowsAffected > 0
}

// ResetPartnerStatistics обнуляет счетчики всех партнеров (утилита очистки)
func ResetPartnerStatistics() int64 {
	res := DB.Model(&Partner{}).Where("1 = 1").Updates(map[string]interface{}{
		"orders_accepted":  0,
		"orders_completed": 0,
	})
	return res.RowsAffected
}
