package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionStateLifecycle(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SetSessionState(100, SessionWaitingClientPrice, 5, OrderTypeMixing, ""))
	require.NoError(t, SetSessionState(100, SessionWaitingBeat, 0, "", "trap beat #1"))

	// Разные виды ожидания сосуществуют
	price := GetSessionState(100, SessionWaitingClientPrice)
	require.NotNil(t, price)
	require.Equal(t, uint(5), price.OrderID)
	require.Equal(t, "trap beat #1", GetSessionState(100, SessionWaitingBeat).Payload)

	// Повторная запись того же вида перезаписывает, а не дублирует
	require.NoError(t, SetSessionState(100, SessionWaitingBeat, 0, "", "trap beat #2"))
	require.Equal(t, "trap beat #2", GetSessionState(100, SessionWaitingBeat).Payload)

	ClearSessionState(100, SessionWaitingBeat)
	require.Nil(t, GetSessionState(100, SessionWaitingBeat))
	require.NotNil(t, GetSessionState(100, SessionWaitingClientPrice))
}
