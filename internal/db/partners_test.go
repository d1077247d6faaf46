package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddPartnerDuplicate(t *testing.T) {
	setupTestDB(t)

	require.True(t, AddPartner(201, "beatmaker", "Иван"))
	require.False(t, AddPartner(201, "beatmaker", "Иван"), "повторное добавление должно вернуть false")

	partner := GetPartner(201)
	require.NotNil(t, partner)
	require.True(t, partner.Active)
}

func TestPartnerRequestFlow(t *testing.T) {
	setupTestDB(t)

	require.True(t, CreatePartnerRequest(300, "candidate", "", "хочу делать биты"))
	// Вторая pending-заявка от того же пользователя не создается
	require.False(t, CreatePartnerRequest(300, "candidate", "", "еще раз"))

	require.NotNil(t, GetPartnerRequest(300))
	require.Len(t, GetPendingRequests(), 1)

	require.True(t, ApprovePartnerRequest(300, 1))
	require.NotNil(t, GetPartner(300), "одобрение должно создать партнера")
	require.Nil(t, GetPartnerRequest(300))

	// Pending-заявки больше нет
	require.False(t, ApprovePartnerRequest(300, 1))

	// Действующий партнер не может подать новую заявку
	require.False(t, CreatePartnerRequest(300, "candidate", "", "снова"))
}

func TestRejectPartnerRequest(t *testing.T) {
	setupTestDB(t)

	require.True(t, CreatePartnerRequest(301, "candidate2", "", ""))
	require.True(t, RejectPartnerRequest(301, 1))
	require.Nil(t, GetPartner(301), "отклонение не создает партнера")
	require.False(t, RejectPartnerRequest(301, 1))

	// После отклонения можно подать заявку заново
	require.True(t, CreatePartnerRequest(301, "candidate2", "", "вторая попытка"))
}

func TestPartnerCounters(t *testing.T) {
	setupTestDB(t)

	require.True(t, AddPartner(201, "beatmaker", ""))
	IncrementPartnerOrders(201, "accepted")
	IncrementPartnerOrders(201, "accepted")
	IncrementPartnerOrders(201, "completed")
	IncrementPartnerOrders(201, "bogus") // неизвестный вид игнорируется

	partner := GetPartner(201)
	require.Equal(t, 2, partner.OrdersAccepted)
	require.Equal(t, 1, partner.OrdersCompleted)

	require.Equal(t, int64(1), ResetPartnerStatistics())
	partner = GetPartner(201)
	require.Zero(t, partner.OrdersAccepted)
	require.Zero(t, partner.OrdersCompleted)
}

func TestSetPartnerActive(t *testing.T) {
	setupTestDB(t)

	require.True(t, AddPartner(201, "beatmaker", ""))
	require.True(t, AddPartner(202, "engineer", ""))
	require.True(t, SetPartnerActive(202, false))

	active := GetActivePartners()
	require.Len(t, active, 1)
	require.Equal(t, int64(201), active[0].UserID)
}
