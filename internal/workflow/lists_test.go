package workflow

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, TabAll, tab)

	tab, err = ParseTab("completed")
	require.NoError(t, err)
	assert.Equal(t, TabCompleted, tab)

	_, err = ParseTab("archived")
	assert.True(t, apperror.IsValidation(err))
}

func TestTab_Includes(t *testing.T) {
	cases := map[Tab]map[valueobject.OrderStatus]bool{
		TabActive: {
			valueobject.OrderStatusPaidEscrow: true,
			valueobject.OrderStatusDelivered:  true,
			valueobject.OrderStatusDraft:      false,
			valueobject.OrderStatusCompleted:  false,
		},
		TabCompleted: {
			valueobject.OrderStatusCompleted: true,
			valueobject.OrderStatusRevision:  false,
		},
		TabOther: {
			valueobject.OrderStatusCancelled: true,
			valueobject.OrderStatusDisputed:  true,
			valueobject.OrderStatusCompleted: false,
		},
		TabAll: {
			valueobject.OrderStatusDraft:    true,
			valueobject.OrderStatusDisputed: true,
		},
	}
	for tab, statuses := range cases {
		for status, want := range statuses {
			assert.Equal(t, want, tab.Includes(status), "%s/%s", tab, status)
		}
	}
}

func TestList_BuyerTabAndStats(t *testing.T) {
	completed := order("o-3", valueobject.OrderStatusCompleted)
	completed.Price = decimal.NewFromInt(250000)
	b := newFakeBackend(
		order("o-1", valueobject.OrderStatusInProgress),
		order("o-2", valueobject.OrderStatusDelivered),
		completed,
		order("o-4", valueobject.OrderStatusCompleted),
		order("o-5", valueobject.OrderStatusCancelled),
		order("o-6", valueobject.OrderStatusDraft),
	)
	orders := NewOrders(b, b, buyerID)

	list, err := orders.List(context.Background(), valueobject.RoleBuyer, TabActive, 1)
	require.NoError(t, err)

	require.Len(t, list.Views, 2)
	assert.Equal(t, "o-1", list.Views[0].Order.ID)
	assert.Equal(t, "o-2", list.Views[1].Order.ID)

	require.NotNil(t, list.Stats)
	assert.Equal(t, 2, list.Stats.Active)
	assert.Equal(t, 2, list.Stats.Completed)
	assert.True(t, decimal.NewFromInt(400000).Equal(list.Stats.TotalSpent), list.Stats.TotalSpent.String())
}

func TestList_SellerHasNoStats(t *testing.T) {
	b := newFakeBackend(order("o-1", valueobject.OrderStatusCancelled))
	orders := NewOrders(b, b, sellerID)

	list, err := orders.List(context.Background(), valueobject.RoleSeller, TabOther, 1)
	require.NoError(t, err)
	assert.Nil(t, list.Stats)
	require.Len(t, list.Views, 1)
	assert.Equal(t, valueobject.RoleSeller, list.Views[0].Role)
}

func TestList_InvalidRole(t *testing.T) {
	b := newFakeBackend()
	_, err := NewOrders(b, b, buyerID).List(context.Background(), valueobject.RoleNone, TabAll, 1)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, b.Calls())
}
