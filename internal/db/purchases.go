package db

import (
	"time"

	"Beats-Telegram-bot/internal/logger"

	"go.uber.org/zap"
)

// CreateBeatPurchase сохраняет новую покупку готового бита
func CreateBeatPurchase(userID int64, username, beat, license, price string) (*BeatPurchase, error) {
	purchase := BeatPurchase{
		UserID:    userID,
		Username:  username,
		Beat:      beat,
		License:   license,
		Price:     price,
		Status:    PurchaseStatusPendingPayment,
		CreatedAt: time.Now(),
	}
	if err := DB.Create(&purchase).Error; err != nil {
		logger.Error("create_beat_purchase", zap.Error(err))
		return nil, err
	}
	return &purchase, nil
}

// GetBeatPurchaseByID находит покупку по ID. nil, если не найдена.
func GetBeatPurchaseByID(purchaseID uint) *BeatPurchase {
	var purchase BeatPurchase
	if err := DB.First(&purchase, purchaseID).Error; err != nil {
		return nil
	}
	return &purchase
}

// GetBeatPurchaseByUser находит самую новую активную покупку клиента.
// Активная — не completed, не payment_rejected и не cancelled_by_client;
// при нескольких берётся с наибольшим ID.
func GetBeatPurchaseByUser(userID int64) *BeatPurchase {
	var purchase BeatPurchase
	err := DB.Where("user_id = ? AND status NOT IN ?", userID, []string{
		PurchaseStatusCompleted,
		PurchaseStatusPaymentRejected,
		PurchaseStatusCancelledByClient,
	}).Order("id DESC").First(&purchase).Error
	if err != nil {
		return nil
	}
	return &purchase
}

// UpdateBeatPurchaseStatus обновляет статус покупки и дополнительные поля.
// payment_received_at ставится только при первом переходе в payment_received.
// Терминальную покупку менять нельзя: возвращается nil.
func UpdateBeatPurchaseStatus(purchaseID uint, status string, extra map[string]interface{}) *BeatPurchase {
	purchase := GetBeatPurchaseByID(purchaseID)
	if purchase == nil {
		return nil
	}
	if purchase.IsTerminal() && status != purchase.Status {
		return nil
	}

	updates := map[string]interface{}{"status": status}
	if status == PurchaseStatusPaymentReceived && purchase.PaymentReceivedAt == nil {
		updates["payment_received_at"] = time.Now()
	}
	for key, value := range extra {
		switch key {
		case "client_message_id", "waiting_card_details", "card_details_sent", "beat", "license", "price":
			updates[key] = value
		}
	}

	res := DB.Model(&BeatPurchase{}).Where("id = ?", purchaseID).Updates(updates)
	if res.Error != nil {
		logger.Error("update_beat_purchase_status", zap.Uint("purchase_id", purchaseID), zap.Error(res.Error))
		return nil
	}
	return GetBeatPurchaseByID(purchaseID)
}

// MarkBeatFileSent отмечает отправку файла клиенту. Метка ставится один раз.
func MarkBeatFileSent(purchaseID uint) *BeatPurchase {
	purchase := GetBeatPurchaseByID(purchaseID)
	if purchase == nil {
		return nil
	}
	if purchase.FileSentAt == nil {
		DB.Model(&BeatPurchase{}).Where("id = ? AND file_sent_at IS NULL", purchaseID).
			Update("file_sent_at", time.Now())
	}
	return GetBeatPurchaseByID(purchaseID)
}

// ListBeatPurchases возвращает все покупки, новые первыми
func ListBeatPurchases() []BeatPurchase {
	var purchases []BeatPurchase
	DB.Order("created_at DESC").Find(&purchases)
	return purchases
}
