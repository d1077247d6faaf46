package db

import (
	"time"

	"Beats-Telegram-bot/internal/logger"

	"go.uber.org/zap"
)

// Статусы, при которых заказ считается активным для поиска по клиенту
var activeOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusInProgress,
	OrderStatusFirstPaymentReceived,
}

// CreateOrder сохраняет новый заказ со статусом pending
func CreateOrder(orderType string, userID int64, username, description, fileID string) (*Order, error) {
	order := Order{
		Type:        orderType,
		UserID:      userID,
		Username:    username,
		Description: description,
		FileID:      fileID,
		Status:      OrderStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := DB.Create(&order).Error; err != nil {
		logger.Error("create_order", zap.Error(err))
		return nil, err
	}
	return &order, nil
}

// GetOrderByID находит заказ по ID и типу. nil, если не найден.
func GetOrderByID(orderID uint, orderType string) *Order {
	var order Order
	if err := DB.Where("id = ? AND type = ?", orderID, orderType).First(&order).Error; err != nil {
		return nil
	}
	return &order
}

// GetOrderByUser находит самый свежий активный заказ клиента.
// Пустой orderType означает любой тип.
func GetOrderByUser(userID int64, orderType string) *Order {
	var order Order
	q := DB.Where("user_id = ? AND status IN ?", userID, activeOrderStatuses)
	if orderType != "" {
		q = q.Where("type = ?", orderType)
	}
	if err := q.Order("created_at DESC").First(&order).Error; err != nil {
		return nil
	}
	return &order
}

// UpdateOrderStatus обновляет статус заказа и дополнительные поля одной записью.
// Временная метка статуса ставится только при первом переходе в него.
// Терминальный заказ (completed/rejected/cancelled) менять нельзя: возвращается nil.
func UpdateOrderStatus(orderID uint, orderType, status string, extra map[string]interface{}) *Order {
	order := GetOrderByID(orderID, orderType)
	if order == nil {
		return nil
	}
	if order.IsTerminal() && status != order.Status {
		return nil
	}

	updates := map[string]interface{}{"status": status}
	now := time.Now()
	switch status {
	case OrderStatusAccepted, OrderStatusInProgress:
		if order.AcceptedAt == nil {
			updates["accepted_at"] = now
		}
	case OrderStatusCompleted:
		if order.CompletedAt == nil {
			updates["completed_at"] = now
		}
	case OrderStatusRejected:
		if order.RejectedAt == nil {
			updates["rejected_at"] = now
		}
	case OrderStatusCancelled:
		if order.CancelledAt == nil {
			updates["cancelled_at"] = now
		}
	}
	for key, value := range extra {
		switch key {
		case "price", "partner_price", "client_price", "partner_id", "partner_username",
			"client_message_id", "first_payment", "second_payment", "accept_lock":
			updates[key] = value
		}
	}

	res := DB.Model(&Order{}).Where("id = ? AND type = ?", orderID, orderType).Updates(updates)
	if res.Error != nil {
		logger.Error("update_order_status", zap.Uint("order_id", orderID), zap.Error(res.Error))
		return nil
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return GetOrderByID(orderID, orderType)
}

// ListOrders возвращает заказы, новые первыми. Пустой orderType — все типы.
func ListOrders(orderType string) []Order {
	var orders []Order
	q := DB.Order("created_at DESC")
	if orderType != "" {
		q = q.Where("type = ?", orderType)
	}
	q.Find(&orders)
	return orders
}

// SaveOrderPartnerNotification запоминает message_id предложения, показанного партнеру
func SaveOrderPartnerNotification(orderID uint, partnerID int64, messageID int) error {
	n := OrderPartnerNotification{
		OrderID:   orderID,
		PartnerID: partnerID,
		MessageID: messageID,
		CreatedAt: time.Now(),
	}
	return DB.Save(&n).Error
}

// GetOrderPartnerNotifications возвращает все отправленные партнерам предложения по заказу
func GetOrderPartnerNotifications(orderID uint) []OrderPartnerNotification {
	var list []OrderPartnerNotification
	DB.Where("order_id = ?", orderID).Find(&list)
	return list
}
