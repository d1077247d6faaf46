package db

import "time"

// Типы заказов
const (
	OrderTypeCustomBeat = "custom_beat"
	OrderTypeMixing     = "mixing"
)

// Статусы заказов
const (
	OrderStatusPending              = "pending"
	OrderStatusAccepted             = "accepted"
	OrderStatusInProgress           = "in_progress"
	OrderStatusFirstPaymentReceived = "first_payment_received"
	OrderStatusAwaitingPrice        = "awaiting_price"
	OrderStatusCompleted            = "completed"
	OrderStatusRejected             = "rejected"
	OrderStatusCancelled            = "cancelled"
)

// Статусы покупок готовых битов
const (
	PurchaseStatusPendingPayment    = "pending_payment"
	PurchaseStatusPaymentReceived   = "payment_received"
	PurchaseStatusCompleted         = "completed"
	PurchaseStatusPaymentRejected   = "payment_rejected"
	PurchaseStatusCancelledByClient = "cancelled_by_client"
)

// Статусы заявок на регистрацию партнеров
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Order представляет заказ бита на заказ или сведения
type Order struct {
	ID              uint   `gorm:"primaryKey;index:idx_orders_type_id,priority:2"`
	Type            string `gorm:"not null;index:idx_orders_type_id,priority:1"` // custom_beat или mixing
	UserID          int64  `gorm:"not null;index:idx_orders_user_id"`
	Username        string `gorm:"not null"`
	Description     string
	FileID          string
	Status          string `gorm:"not null;default:pending;index:idx_orders_status"`
	Price           string // свободный текст, может содержать символ валюты
	PartnerPrice    string
	ClientPrice     string
	FirstPayment    bool
	SecondPayment   bool
	CreatedAt       time.Time
	AcceptedAt      *time.Time
	CompletedAt     *time.Time
	RejectedAt      *time.Time
	CancelledAt     *time.Time
	ClientMessageID *int
	PartnerID       *int64 `gorm:"index:idx_orders_partner_id"`
	PartnerUsername string
	AcceptLock      *time.Time
}

// IsTerminal сообщает, достиг ли заказ конечного статуса
func (o *Order) IsTerminal() bool {
	return IsTerminalOrderStatus(o.Status)
}

func IsTerminalOrderStatus(status string) bool {
	switch status {
	case OrderStatusCompleted, OrderStatusRejected, OrderStatusCancelled:
		return true
	}
	return false
}

// BeatPurchase представляет покупку готового бита
type BeatPurchase struct {
	ID                 uint   `gorm:"primaryKey"`
	UserID             int64  `gorm:"not null;index:idx_purchases_user_id"`
	Username           string `gorm:"not null"`
	Beat               string `gorm:"not null"`
	License            string `gorm:"not null"`
	Price              string `gorm:"not null"`
	Status             string `gorm:"not null;default:pending_payment;index:idx_purchases_status"`
	CreatedAt          time.Time
	PaymentReceivedAt  *time.Time
	FileSentAt         *time.Time
	ClientMessageID    *int
	WaitingCardDetails bool
	CardDetailsSent    bool
}

func (BeatPurchase) TableName() string { return "beats_purchases" }

func (p *BeatPurchase) IsTerminal() bool {
	return IsTerminalPurchaseStatus(p.Status)
}

func IsTerminalPurchaseStatus(status string) bool {
	switch status {
	case PurchaseStatusCompleted, PurchaseStatusPaymentRejected, PurchaseStatusCancelledByClient:
		return true
	}
	return false
}

// Partner — зарегистрированный исполнитель (битмейкер или звукоинженер)
type Partner struct {
	UserID          int64  `gorm:"primaryKey;autoIncrement:false"`
	Username        string `gorm:"not null"`
	Name            string `gorm:"not null"`
	Type            string `gorm:"not null;default:partner"`
	Active          bool   `gorm:"not null;default:true;index:idx_partners_active"`
	OrdersAccepted  int    `gorm:"not null;default:0"`
	OrdersCompleted int    `gorm:"not null;default:0"`
}

// PartnerRequest — заявка на регистрацию партнера
type PartnerRequest struct {
	UserID     int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `gorm:"primaryKey"`
	Username   string    `gorm:"not null"`
	Name       string    `gorm:"not null"`
	Type       string    `gorm:"not null;default:partner"`
	Message    string
	Status     string `gorm:"not null;default:pending;index:idx_requests_status"`
	ReviewedAt *time.Time
	ReviewedBy *int64
}

// UserLanguage — выбранный язык пользователя, last-write-wins
type UserLanguage struct {
	UserID    int64  `gorm:"primaryKey;autoIncrement:false"`
	Language  string `gorm:"not null;default:ru"`
	UpdatedAt time.Time
}

// SessionState — ожидаемый от пользователя ввод (сумма, описание и т.п.).
// Хранится в БД, чтобы состояние переживало рестарт и было видно всем трём ботам.
type SessionState struct {
	UserID    int64  `gorm:"primaryKey;autoIncrement:false"`
	Kind      string `gorm:"primaryKey"`
	OrderID   uint
	OrderType string
	Payload   string
	UpdatedAt time.Time
}

// Виды ожидаемого ввода
const (
	SessionWaitingPartnerPrice = "waiting_partner_price"
	SessionWaitingClientPrice  = "waiting_client_price"
	SessionWaitingDescription  = "waiting_description"
	SessionWaitingBeat         = "waiting_beat"
)

// OrderPaymentLog — запись о платеже по заказу. Информационная, не авторитетная:
// источником истины остаётся статус заказа.
type OrderPaymentLog struct {
	ID          uint   `gorm:"primaryKey"`
	EntryID     string `gorm:"uniqueIndex;not null"`
	OrderID     uint   `gorm:"not null;index:idx_payment_logs_order"`
	OrderType   string `gorm:"not null"`
	ClientID    int64  `gorm:"index:idx_payment_logs_client"`
	PartnerID   int64  `gorm:"index:idx_payment_logs_partner"`
	Amount      string
	PaymentType string `gorm:"not null"` // first_payment, second_payment, full_payment
	Status      string `gorm:"not null;default:pending"`
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderPartnerNotification — сообщение с предложением заказа, отправленное партнеру.
// Нужно, чтобы после принятия заказа отредактировать устаревшие предложения.
type OrderPartnerNotification struct {
	OrderID   uint  `gorm:"primaryKey;autoIncrement:false"`
	PartnerID int64 `gorm:"primaryKey;autoIncrement:false"`
	MessageID int
	CreatedAt time.Time
}
