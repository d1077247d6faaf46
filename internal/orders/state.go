package orders

import (
	"time"

	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/logger"
	"Beats-Telegram-bot/internal/payments"
)

// Claim — партнер забирает pending-заказ. Эксклюзивность обеспечивает одно
// атомарное условное обновление: выигрывает ровно один вызов, остальные видят
// RowsAffected == 0 ("заказ уже принят"). Никаких sleep и advisory-блокировок.
func Claim(orderID uint, orderType string, partnerID int64, partnerUsername string) (*db.Order, bool) {
	res := db.DB.Model(&db.Order{}).
		Where("id = ? AND type = ? AND status = ? AND partner_id IS NULL",
			orderID, orderType, db.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":           db.OrderStatusInProgress,
			"partner_id":       partnerID,
			"partner_username": partnerUsername,
			"accepted_at":      time.Now(),
			"accept_lock":      nil,
		})
	if res.Error != nil {
		logger.Error("claim_order: " + res.Error.Error())
		return nil, false
	}
	if res.RowsAffected == 0 {
		return nil, false
	}
	db.IncrementPartnerOrders(partnerID, "accepted")
	logger.LogOrderEvent(orderID, orderType, "claimed_by_partner")
	return db.GetOrderByID(orderID, orderType), true
}

// ClaimByAdmin — админ забирает заказ себе. Тот же атомарный guard,
// partner_id остается пустым.
func ClaimByAdmin(orderID uint, orderType string) (*db.Order, bool) {
	res := db.DB.Model(&db.Order{}).
		Where("id = ? AND type = ? AND status = ? AND partner_id IS NULL",
			orderID, orderType, db.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":      db.OrderStatusInProgress,
			"accepted_at": time.Now(),
			"accept_lock": nil,
		})
	if res.Error != nil {
		logger.Error("claim_order_admin: " + res.Error.Error())
		return nil, false
	}
	if res.RowsAffected == 0 {
		return nil, false
	}
	logger.LogOrderEvent(orderID, orderType, "claimed_by_admin")
	return db.GetOrderByID(orderID, orderType), true
}

// Reject — админ отклоняет pending-заказ
func Reject(orderID uint, orderType string) (*db.Order, bool) {
	order := db.GetOrderByID(orderID, orderType)
	if order == nil || order.Status != db.OrderStatusPending {
		return nil, false
	}
	updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusRejected, nil)
	if updated == nil {
		return nil, false
	}
	logger.LogOrderEvent(orderID, orderType, "rejected")
	return updated, true
}

// Cancel отменяет заказ в работе. Права (админ или принявший партнер)
// проверяет вызывающий обработчик.
func Cancel(orderID uint, orderType string) (*db.Order, bool) {
	order := db.GetOrderByID(orderID, orderType)
	if order == nil {
		return nil, false
	}
	switch order.Status {
	case db.OrderStatusInProgress, db.OrderStatusFirstPaymentReceived:
	default:
		return nil, false
	}
	updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusCancelled, nil)
	if updated == nil {
		return nil, false
	}
	logger.LogOrderEvent(orderID, orderType, "cancelled")
	return updated, true
}

// ConfirmFirstPayment подтверждает первую оплату (50%): работа может начинаться
func ConfirmFirstPayment(orderID uint, orderType, amount string) (*db.Order, bool) {
	order := db.GetOrderByID(orderID, orderType)
	if order == nil || order.FirstPayment {
		return nil, false
	}
	switch order.Status {
	case db.OrderStatusInProgress, db.OrderStatusAccepted:
	default:
		return nil, false
	}
	extra := map[string]interface{}{"first_payment": true}
	if amount != "" {
		extra["price"] = amount
	}
	updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusFirstPaymentReceived, extra)
	if updated == nil {
		return nil, false
	}
	payments.LogPayment(orderID, orderType, order.UserID, partnerOrZero(order), amount, payments.TypeFirstPayment, "confirmed", "")
	logger.LogOrderEvent(orderID, orderType, "first_payment_confirmed")
	return updated, true
}

// ConfirmSecondPayment подтверждает вторую оплату (50%) и завершает заказ
func ConfirmSecondPayment(orderID uint, orderType, amount string) (*db.Order, bool) {
	order := db.GetOrderByID(orderID, orderType)
	if order == nil || order.Status != db.OrderStatusFirstPaymentReceived {
		return nil, false
	}
	updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusCompleted, map[string]interface{}{
		"second_payment": true,
	})
	if updated == nil {
		return nil, false
	}
	payments.LogPayment(orderID, orderType, order.UserID, partnerOrZero(order), amount, payments.TypeSecondPayment, "confirmed", "")
	completePartnerCounter(updated)
	logger.LogOrderEvent(orderID, orderType, "second_payment_confirmed")
	return updated, true
}

// ConfirmFullPayment подтверждает оплату 100% одним платежом и завершает заказ
func ConfirmFullPayment(orderID uint, orderType, amount string) (*db.Order, bool) {
	order := db.GetOrderByID(orderID, orderType)
	if order == nil {
		return nil, false
	}
	switch order.Status {
	case db.OrderStatusInProgress, db.OrderStatusFirstPaymentReceived:
	default:
		return nil, false
	}
	extra := map[string]interface{}{"first_payment": true, "second_payment": true}
	if amount != "" {
		extra["price"] = amount
	}
	updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusCompleted, extra)
	if updated == nil {
		return nil, false
	}
	payments.LogPayment(orderID, orderType, order.UserID, partnerOrZero(order), amount, payments.TypeFullPayment, "confirmed", "")
	completePartnerCounter(updated)
	logger.LogOrderEvent(orderID, orderType, "full_payment_confirmed")
	return updated, true
}

// MarkCompletedByAdmin — админ закрывает заказ
func MarkCompletedByAdmin(orderID uint, orderType string) (*db.Order, bool) {
	order := db.GetOrderByID(orderID, orderType)
	if order == nil {
		return nil, false
	}
	switch order.Status {
	case db.OrderStatusInProgress, db.OrderStatusFirstPaymentReceived:
	default:
		return nil, false
	}
	updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusCompleted, nil)
	if updated == nil {
		return nil, false
	}
	completePartnerCounter(updated)
	logger.LogOrderEvent(orderID, orderType, "completed_by_admin")
	return updated, true
}

// MarkCompletedByPartner — партнер объявил работу сделанной до сверки оплаты.
// Заказ переходит в awaiting_price: и партнер, и клиент независимо называют сумму.
func MarkCompletedByPartner(orderID uint, orderType string, partnerID int64) (*db.Order, bool) {
	order := db.GetOrderByID(orderID, orderType)
	if order == nil || order.PartnerID == nil || *order.PartnerID != partnerID {
		return nil, false
	}
	switch order.Status {
	case db.OrderStatusInProgress, db.OrderStatusFirstPaymentReceived:
	default:
		return nil, false
	}
	updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusAwaitingPrice, nil)
	if updated == nil {
		return nil, false
	}
	logger.LogOrderEvent(orderID, orderType, "marked_completed_by_partner")
	return updated, true
}

// SetPartnerPrice сохраняет сумму, названную исполнителем
func SetPartnerPrice(orderID uint, orderType, price string) (*db.Order, bool) {
	order := db.GetOrderByID(orderID, orderType)
	if order == nil || order.Status != db.OrderStatusAwaitingPrice {
		return nil, false
	}
	updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusAwaitingPrice, map[string]interface{}{
		"partner_price": price,
	})
	return updated, updated != nil
}

// SetClientPrice сохраняет сумму, названную клиентом. Если сумма исполнителя
// уже есть, заказ автоматически завершается. Равенство сумм не требуется
// (сверку делает админ), но расхождение отмечается флагом mismatch.
func SetClientPrice(orderID uint, orderType, price string) (order *db.Order, finalized, mismatch bool) {
	current := db.GetOrderByID(orderID, orderType)
	if current == nil || current.Status != db.OrderStatusAwaitingPrice {
		return nil, false, false
	}
	if current.PartnerPrice == "" {
		// Сумма исполнителя еще не названа — остаёмся в awaiting_price
		updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusAwaitingPrice, map[string]interface{}{
			"client_price": price,
		})
		return updated, false, false
	}
	updated := db.UpdateOrderStatus(orderID, orderType, db.OrderStatusCompleted, map[string]interface{}{
		"client_price": price,
	})
	if updated == nil {
		return nil, false, false
	}
	completePartnerCounter(updated)
	mismatch = !PricesMatch(current.PartnerPrice, price)
	logger.LogOrderEvent(orderID, orderType, "completed_after_prices")
	return updated, true, mismatch
}

func partnerOrZero(order *db.Order) int64 {
	if order.PartnerID != nil {
		return *order.PartnerID
	}
	return 0
}

func completePartnerCounter(order *db.Order) {
	if order.PartnerID != nil {
		db.IncrementPartnerOrders(*order.PartnerID, "completed")
	}
}
