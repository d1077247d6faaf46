package orders

import (
	"sync"
	"testing"

	"Beats-Telegram-bot/internal/db"
	"Beats-Telegram-bot/internal/payments"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db.InitDB(":memory:")
}

// Одновременное принятие заказа несколькими партнерами: выигрывает ровно один
func TestClaimExclusive(t *testing.T) {
	setupTestDB(t)

	db.AddPartner(201, "beatmaker", "")
	db.AddPartner(202, "engineer", "")
	order, err := db.CreateOrder(db.OrderTypeMixing, 100, "client", "свести трек", "")
	require.NoError(t, err)

	partners := []int64{201, 202, 201, 202, 201, 202, 201, 202}
	results := make([]bool, len(partners))
	var wg sync.WaitGroup
	for i, pid := range partners {
		wg.Add(1)
		go func(i int, pid int64) {
			defer wg.Done()
			_, results[i] = Claim(order.ID, db.OrderTypeMixing, pid, "partner")
		}(i, pid)
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	require.Equal(t, 1, winners, "заказ должен достаться ровно одному")

	got := db.GetOrderByID(order.ID, db.OrderTypeMixing)
	require.Equal(t, db.OrderStatusInProgress, got.Status)
	require.NotNil(t, got.PartnerID)
	require.NotNil(t, got.AcceptedAt)
}

func TestClaimOnlyPending(t *testing.T) {
	setupTestDB(t)

	order, err := db.CreateOrder(db.OrderTypeCustomBeat, 100, "client", "бит", "")
	require.NoError(t, err)

	_, ok := Claim(order.ID, db.OrderTypeCustomBeat, 201, "beatmaker")
	require.True(t, ok)

	// Принятый заказ повторно не забирается ни партнером, ни админом
	_, ok = Claim(order.ID, db.OrderTypeCustomBeat, 202, "engineer")
	require.False(t, ok)
	_, ok = ClaimByAdmin(order.ID, db.OrderTypeCustomBeat)
	require.False(t, ok)
}

func TestClaimByAdmin(t *testing.T) {
	setupTestDB(t)

	order, err := db.CreateOrder(db.OrderTypeMixing, 100, "client", "x", "")
	require.NoError(t, err)

	claimed, ok := ClaimByAdmin(order.ID, db.OrderTypeMixing)
	require.True(t, ok)
	require.Equal(t, db.OrderStatusInProgress, claimed.Status)
	require.Nil(t, claimed.PartnerID, "админский заказ остается без партнера")
	require.NotNil(t, claimed.AcceptedAt)

	// Партнер не может забрать заказ, взятый админом
	_, ok = Claim(order.ID, db.OrderTypeMixing, 201, "beatmaker")
	require.False(t, ok)
}

func TestRejectOnlyPending(t *testing.T) {
	setupTestDB(t)

	order, err := db.CreateOrder(db.OrderTypeMixing, 100, "client", "x", "")
	require.NoError(t, err)

	_, ok := Claim(order.ID, db.OrderTypeMixing, 201, "beatmaker")
	require.True(t, ok)
	_, ok = Reject(order.ID, db.OrderTypeMixing)
	require.False(t, ok, "заказ в работе отклонить нельзя")

	other, err := db.CreateOrder(db.OrderTypeMixing, 101, "client2", "y", "")
	require.NoError(t, err)
	rejected, ok := Reject(other.ID, db.OrderTypeMixing)
	require.True(t, ok)
	require.Equal(t, db.OrderStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedAt)
}

// Двухэтапная оплата 50/50: первая оплата, потом вторая завершает заказ
func TestTwoPhasePayment(t *testing.T) {
	setupTestDB(t)

	db.AddPartner(201, "beatmaker", "")
	order, err := db.CreateOrder(db.OrderTypeCustomBeat, 100, "client", "бит", "")
	require.NoError(t, err)
	_, ok := Claim(order.ID, db.OrderTypeCustomBeat, 201, "beatmaker")
	require.True(t, ok)

	// Вторая оплата раньше первой невозможна
	_, ok = ConfirmSecondPayment(order.ID, db.OrderTypeCustomBeat, "$30")
	require.False(t, ok)

	first, ok := ConfirmFirstPayment(order.ID, db.OrderTypeCustomBeat, "$60")
	require.True(t, ok)
	require.Equal(t, db.OrderStatusFirstPaymentReceived, first.Status)
	require.True(t, first.FirstPayment)

	// Первая оплата подтверждается один раз
	_, ok = ConfirmFirstPayment(order.ID, db.OrderTypeCustomBeat, "$60")
	require.False(t, ok)

	second, ok := ConfirmSecondPayment(order.ID, db.OrderTypeCustomBeat, "$30")
	require.True(t, ok)
	require.Equal(t, db.OrderStatusCompleted, second.Status)
	require.True(t, second.SecondPayment)

	logs := payments.LogsByOrder(order.ID, db.OrderTypeCustomBeat)
	require.Len(t, logs, 2)
	require.Equal(t, payments.TypeFirstPayment, logs[0].PaymentType)
	require.Equal(t, payments.TypeSecondPayment, logs[1].PaymentType)

	// Счетчик завершенных заказов партнера увеличился
	require.Equal(t, 1, db.GetPartner(201).OrdersCompleted)
}

func TestFullPaymentCompletes(t *testing.T) {
	setupTestDB(t)

	db.AddPartner(201, "beatmaker", "")
	order, err := db.CreateOrder(db.OrderTypeMixing, 100, "client", "x", "")
	require.NoError(t, err)
	_, ok := Claim(order.ID, db.OrderTypeMixing, 201, "beatmaker")
	require.True(t, ok)

	completed, ok := ConfirmFullPayment(order.ID, db.OrderTypeMixing, "$90")
	require.True(t, ok)
	require.Equal(t, db.OrderStatusCompleted, completed.Status)
	require.True(t, completed.FirstPayment)
	require.True(t, completed.SecondPayment)
}

// Партнер объявил работу сделанной: обе стороны называют сумму, заказ
// завершается автоматически после второй
func TestAwaitingPriceFlow(t *testing.T) {
	setupTestDB(t)

	db.AddPartner(201, "beatmaker", "")
	order, err := db.CreateOrder(db.OrderTypeMixing, 100, "client", "x", "")
	require.NoError(t, err)
	_, ok := Claim(order.ID, db.OrderTypeMixing, 201, "beatmaker")
	require.True(t, ok)

	// Чужой партнер завершить не может
	_, ok = MarkCompletedByPartner(order.ID, db.OrderTypeMixing, 999)
	require.False(t, ok)

	awaiting, ok := MarkCompletedByPartner(order.ID, db.OrderTypeMixing, 201)
	require.True(t, ok)
	require.Equal(t, db.OrderStatusAwaitingPrice, awaiting.Status)

	_, ok = SetPartnerPrice(order.ID, db.OrderTypeMixing, "$60")
	require.True(t, ok)

	completed, finalized, mismatch := SetClientPrice(order.ID, db.OrderTypeMixing, "60")
	require.True(t, finalized)
	require.False(t, mismatch, "$60 и 60 считаются совпадающими")
	require.Equal(t, db.OrderStatusCompleted, completed.Status)
	require.Equal(t, 1, db.GetPartner(201).OrdersCompleted)
}

func TestAwaitingPriceMismatchStillCompletes(t *testing.T) {
	setupTestDB(t)

	db.AddPartner(201, "beatmaker", "")
	order, err := db.CreateOrder(db.OrderTypeCustomBeat, 100, "client", "x", "")
	require.NoError(t, err)
	_, ok := Claim(order.ID, db.OrderTypeCustomBeat, 201, "beatmaker")
	require.True(t, ok)
	_, ok = MarkCompletedByPartner(order.ID, db.OrderTypeCustomBeat, 201)
	require.True(t, ok)

	// Сумма клиента до суммы исполнителя не завершает заказ
	notYet, finalized, _ := SetClientPrice(order.ID, db.OrderTypeCustomBeat, "$50")
	require.False(t, finalized)
	require.Equal(t, db.OrderStatusAwaitingPrice, notYet.Status)

	_, ok = SetPartnerPrice(order.ID, db.OrderTypeCustomBeat, "$60")
	require.True(t, ok)

	// Расхождение сумм не блокирует завершение, оно только помечается
	completed, finalized, mismatch := SetClientPrice(order.ID, db.OrderTypeCustomBeat, "$50")
	require.True(t, finalized)
	require.True(t, mismatch)
	require.Equal(t, db.OrderStatusCompleted, completed.Status)
}

func TestCancelOnlyInProgress(t *testing.T) {
	setupTestDB(t)

	order, err := db.CreateOrder(db.OrderTypeMixing, 100, "client", "x", "")
	require.NoError(t, err)

	// Pending отменяется только отклонением, не отменой
	_, ok := Cancel(order.ID, db.OrderTypeMixing)
	require.False(t, ok)

	_, ok = Claim(order.ID, db.OrderTypeMixing, 201, "beatmaker")
	require.True(t, ok)
	cancelled, ok := Cancel(order.ID, db.OrderTypeMixing)
	require.True(t, ok)
	require.Equal(t, db.OrderStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	// Терминальный заказ заморожен
	_, ok = Cancel(order.ID, db.OrderTypeMixing)
	require.False(t, ok)
}
