package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetBeatPurchaseByUserHighestID(t *testing.T) {
	setupTestDB(t)

	old, err := CreateBeatPurchase(100, "client", "beat one", "MP3 Lease", "$19")
	require.NoError(t, err)
	newer, err := CreateBeatPurchase(100, "client", "beat two", "WAV Lease", "$49")
	require.NoError(t, err)

	got := GetBeatPurchaseByUser(100)
	require.NotNil(t, got)
	require.Equal(t, newer.ID, got.ID, "при нескольких активных берется с наибольшим ID")

	// Завершенная покупка активной не считается
	require.NotNil(t, UpdateBeatPurchaseStatus(newer.ID, PurchaseStatusCancelledByClient, nil))
	got = GetBeatPurchaseByUser(100)
	require.NotNil(t, got)
	require.Equal(t, old.ID, got.ID)
}

func TestPurchasePaymentReceivedAtOnce(t *testing.T) {
	setupTestDB(t)

	purchase, err := CreateBeatPurchase(100, "client", "beat", "MP3 Lease", "$19")
	require.NoError(t, err)

	first := UpdateBeatPurchaseStatus(purchase.ID, PurchaseStatusPaymentReceived, nil)
	require.NotNil(t, first)
	require.NotNil(t, first.PaymentReceivedAt)
	stamp := *first.PaymentReceivedAt

	again := UpdateBeatPurchaseStatus(purchase.ID, PurchaseStatusPaymentReceived, nil)
	require.NotNil(t, again)
	require.Equal(t, stamp, *again.PaymentReceivedAt)
}

func TestTerminalPurchaseFrozen(t *testing.T) {
	setupTestDB(t)

	purchase, err := CreateBeatPurchase(100, "client", "beat", "MP3 Lease", "$19")
	require.NoError(t, err)
	require.NotNil(t, UpdateBeatPurchaseStatus(purchase.ID, PurchaseStatusPaymentRejected, nil))

	require.Nil(t, UpdateBeatPurchaseStatus(purchase.ID, PurchaseStatusCompleted, nil))
	require.Equal(t, PurchaseStatusPaymentRejected, GetBeatPurchaseByID(purchase.ID).Status)
}

// Полный путь покупки: оплата подтверждена, файл отправлен, покупка завершена
func TestPurchaseLifecycle(t *testing.T) {
	setupTestDB(t)

	purchase, err := CreateBeatPurchase(100, "client", "night drive", "WAV Lease", "$49")
	require.NoError(t, err)
	require.Equal(t, PurchaseStatusPendingPayment, purchase.Status)

	require.NotNil(t, UpdateBeatPurchaseStatus(purchase.ID, purchase.Status, map[string]interface{}{
		"waiting_card_details": true,
	}))
	require.NotNil(t, UpdateBeatPurchaseStatus(purchase.ID, PurchaseStatusPendingPayment, map[string]interface{}{
		"card_details_sent":    true,
		"waiting_card_details": false,
	}))

	received := UpdateBeatPurchaseStatus(purchase.ID, PurchaseStatusPaymentReceived, nil)
	require.NotNil(t, received)
	require.NotNil(t, received.PaymentReceivedAt)

	sent := MarkBeatFileSent(purchase.ID)
	require.NotNil(t, sent.FileSentAt)

	done := UpdateBeatPurchaseStatus(purchase.ID, PurchaseStatusCompleted, nil)
	require.NotNil(t, done)
	require.True(t, done.CardDetailsSent)
	require.True(t, done.IsTerminal())
	require.Nil(t, GetBeatPurchaseByUser(100), "завершенная покупка больше не активна")
}

func TestMarkBeatFileSentOnce(t *testing.T) {
	setupTestDB(t)

	purchase, err := CreateBeatPurchase(100, "client", "beat", "MP3 Lease", "$19")
	require.NoError(t, err)

	first := MarkBeatFileSent(purchase.ID)
	require.NotNil(t, first)
	require.NotNil(t, first.FileSentAt)
	stamp := *first.FileSentAt

	again := MarkBeatFileSent(purchase.ID)
	require.Equal(t, stamp, *again.FileSentAt)
}
