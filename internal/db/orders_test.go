package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAndGetOrder(t *testing.T) {
	setupTestDB(t)

	order, err := CreateOrder(OrderTypeCustomBeat, 100, "client", "трэп, 140 bpm", "file123")
	require.NoError(t, err)
	require.Equal(t, OrderStatusPending, order.Status)

	got := GetOrderByID(order.ID, OrderTypeCustomBeat)
	require.NotNil(t, got)
	require.Equal(t, "трэп, 140 bpm", got.Description)

	// Тот же ID с другим типом — другой заказ, его нет
	require.Nil(t, GetOrderByID(order.ID, OrderTypeMixing))
}

func TestGetOrderByUserActiveOnly(t *testing.T) {
	setupTestDB(t)

	first, err := CreateOrder(OrderTypeMixing, 100, "client", "первый", "")
	require.NoError(t, err)
	require.NotNil(t, UpdateOrderStatus(first.ID, OrderTypeMixing, OrderStatusCompleted, nil))

	second, err := CreateOrder(OrderTypeMixing, 100, "client", "второй", "")
	require.NoError(t, err)

	got := GetOrderByUser(100, OrderTypeMixing)
	require.NotNil(t, got)
	require.Equal(t, second.ID, got.ID, "активным считается только незавершенный заказ")

	// Пустой тип находит активный заказ любого типа
	require.NotNil(t, GetOrderByUser(100, ""))
	require.Nil(t, GetOrderByUser(999, ""))
}

func TestOrderTimestampsSetOnce(t *testing.T) {
	setupTestDB(t)

	order, err := CreateOrder(OrderTypeMixing, 100, "client", "x", "")
	require.NoError(t, err)

	accepted := UpdateOrderStatus(order.ID, OrderTypeMixing, OrderStatusInProgress, nil)
	require.NotNil(t, accepted)
	require.NotNil(t, accepted.AcceptedAt)
	firstStamp := *accepted.AcceptedAt

	// Повторный переход в тот же статус не перезаписывает метку
	again := UpdateOrderStatus(order.ID, OrderTypeMixing, OrderStatusInProgress, nil)
	require.NotNil(t, again)
	require.Equal(t, firstStamp, *again.AcceptedAt)
}

func TestTerminalOrderFrozen(t *testing.T) {
	setupTestDB(t)

	order, err := CreateOrder(OrderTypeCustomBeat, 100, "client", "x", "")
	require.NoError(t, err)
	require.NotNil(t, UpdateOrderStatus(order.ID, OrderTypeCustomBeat, OrderStatusCompleted, nil))

	// Из терминального статуса выхода нет
	require.Nil(t, UpdateOrderStatus(order.ID, OrderTypeCustomBeat, OrderStatusCancelled, nil))
	require.Nil(t, UpdateOrderStatus(order.ID, OrderTypeCustomBeat, OrderStatusPending, nil))

	got := GetOrderByID(order.ID, OrderTypeCustomBeat)
	require.Equal(t, OrderStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestUpdateOrderExtraWhitelist(t *testing.T) {
	setupTestDB(t)

	order, err := CreateOrder(OrderTypeMixing, 100, "client", "x", "")
	require.NoError(t, err)

	updated := UpdateOrderStatus(order.ID, OrderTypeMixing, OrderStatusPending, map[string]interface{}{
		"price":   "$60",
		"user_id": int64(777), // посторонний ключ должен игнорироваться
	})
	require.NotNil(t, updated)
	require.Equal(t, "$60", updated.Price)
	require.Equal(t, int64(100), updated.UserID)
}
