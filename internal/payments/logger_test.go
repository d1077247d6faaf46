package payments

import (
	"testing"

	"Beats-Telegram-bot/internal/db"

	"github.com/stretchr/testify/require"
)

func TestLogAndUpdatePayment(t *testing.T) {
	db.InitDB(":memory:")

	require.True(t, LogPayment(1, db.OrderTypeMixing, 100, 201, "$30", TypeFirstPayment, "", ""))

	logs := LogsByOrder(1, db.OrderTypeMixing)
	require.Len(t, logs, 1)
	require.Equal(t, "pending", logs[0].Status, "пустой статус превращается в pending")
	require.NotEmpty(t, logs[0].EntryID)

	require.True(t, UpdatePaymentStatus(1, db.OrderTypeMixing, TypeFirstPayment, "confirmed", "перевод пришел"))
	logs = LogsByOrder(1, db.OrderTypeMixing)
	require.Equal(t, "confirmed", logs[0].Status)
	require.Equal(t, "перевод пришел", logs[0].Notes)

	// Несуществующая запись
	require.False(t, UpdatePaymentStatus(1, db.OrderTypeMixing, TypeSecondPayment, "confirmed", ""))
}

func TestLogsByParticipant(t *testing.T) {
	db.InitDB(":memory:")

	LogPayment(1, db.OrderTypeMixing, 100, 201, "$30", TypeFirstPayment, "confirmed", "")
	LogPayment(2, db.OrderTypeCustomBeat, 100, 202, "$60", TypeFullPayment, "confirmed", "")
	LogPayment(3, db.OrderTypeMixing, 101, 201, "$45", TypeFullPayment, "confirmed", "")

	require.Len(t, LogsByClient(100), 2)
	require.Len(t, LogsByPartner(201), 2)
	require.Len(t, LogsByPartner(999), 0)
}
