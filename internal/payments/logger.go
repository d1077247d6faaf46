package payments

import (
	"time"

	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Типы платежей
const (
	TypeFirstPayment  = "first_payment"  // 50%
	TypeSecondPayment = "second_payment" // 50%
	TypeFullPayment   = "full_payment"   // 100%
)

// LogPayment добавляет запись о платеже. Лог append-only и информационный:
// авторитетным остается статус заказа.
func LogPayment(orderID uint, orderType string, clientID, partnerID int64, amount, paymentType, status, notes string) bool {
	if status == "" {
		status = "pending"
	}
	now := time.Now()
	entry := db.OrderPaymentLog{
		EntryID:     uuid.NewString(),
		OrderID:     orderID,
		OrderType:   orderType,
		ClientID:    clientID,
		PartnerID:   partnerID,
		Amount:      amount,
		PaymentType: paymentType,
		Status:      status,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.DB.Create(&entry).Error; err != nil {
		logger.Error("log_payment", zap.Uint("order_id", orderID), zap.Error(err))
		return false
	}
	return true
}

// UpdatePaymentStatus обновляет статус платежа по (заказ, тип платежа).
// false, если такой записи нет.
func UpdatePaymentStatus(orderID uint, orderType, paymentType, status, notes string) bool {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if notes != "" {
		updates["notes"] = notes
	}
	res := db.DB.Model(&db.OrderPaymentLog{}).
		Where("order_id = ? AND order_type = ? AND payment_type = ?", orderID, orderType, paymentType).
		Updates(updates)
	return res.Error == nil && res.RowsAffected > 0
}

// LogsByOrder возвращает все платежи по заказу
func LogsByOrder(orderID uint, orderType string) []db.OrderPaymentLog {
	var logs []db.OrderPaymentLog
	db.DB.Where("order_id = ? AND order_type = ?", orderID, orderType).
		Order("created_at").Find(&logs)
	return logs
}

// LogsByPartner возвращает все платежи партнера
func LogsByPartner(partnerID int64) []db.OrderPaymentLog {
	var logs []db.OrderPaymentLog
	db.DB.Where("partner_id = ?", partnerID).Order("created_at").Find(&logs)
	return logs
}

// LogsByClient возвращает все платежи клиента
func LogsByClient(clientID int64) []db.OrderPaymentLog {
	var logs []db.OrderPaymentLog
	db.DB.Where("client_id = ?", clientID).Order("created_at").Find(&logs)
	return logs
}
