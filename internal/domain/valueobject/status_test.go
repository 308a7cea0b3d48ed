package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Progress(t *testing.T) {
	cases := map[OrderStatus]int{
		OrderStatusDraft:          10,
		OrderStatusWaitingPayment: 20,
		OrderStatusPaidEscrow:     35,
		OrderStatusInProgress:     50,
		OrderStatusRevision:       65,
		OrderStatusDelivered:      80,
		OrderStatusCompleted:      100,
		OrderStatusCancelled:      0,
		OrderStatusDisputed:       0,
	}

	// каждый известный статус должен быть явно описан в таблице
	assert.Len(t, cases, len(OrderStatuses))
	for _, status := range OrderStatuses {
		_, mapped := orderProgress[status]
		assert.True(t, mapped, "status %s has no explicit progress", status)
		assert.Equal(t, cases[status], status.Progress(), "status %s", status)
	}

	assert.Equal(t, 0, OrderStatus("SOMETHING_NEW").Progress())
	assert.Equal(t, 0, OrderStatus("").Progress())
}

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, OrderStatusDraft.CanTransitionTo(OrderStatusWaitingPayment))
	assert.True(t, OrderStatusWaitingPayment.CanTransitionTo(OrderStatusPaidEscrow))
	assert.True(t, OrderStatusPaidEscrow.CanTransitionTo(OrderStatusInProgress))
	assert.True(t, OrderStatusInProgress.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusDelivered.CanTransitionTo(OrderStatusRevision))
	assert.True(t, OrderStatusRevision.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCompleted))

	for _, s := range []OrderStatus{OrderStatusPaidEscrow, OrderStatusInProgress, OrderStatusRevision, OrderStatusDelivered} {
		assert.True(t, s.CanTransitionTo(OrderStatusDisputed), "%s -> DISPUTED", s)
	}
	for _, s := range []OrderStatus{OrderStatusDraft, OrderStatusWaitingPayment, OrderStatusPaidEscrow} {
		assert.True(t, s.CanTransitionTo(OrderStatusCancelled), "%s -> CANCELLED", s)
	}

	assert.False(t, OrderStatusCompleted.CanTransitionTo(OrderStatusRevision))
	assert.False(t, OrderStatusInProgress.CanTransitionTo(OrderStatusCompleted))
	assert.False(t, OrderStatusDisputed.CanTransitionTo(OrderStatusInProgress))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatus("UNKNOWN").CanTransitionTo(OrderStatusDraft))
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusDisputed.IsTerminal())
	assert.False(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatus("UNKNOWN").IsTerminal())
}

func TestOrderStatus_Label(t *testing.T) {
	assert.Equal(t, "Revisi", OrderStatusRevision.Label())
	assert.Equal(t, "Sengketa", OrderStatusDisputed.Label())
	assert.Equal(t, ToneSuccess, OrderStatusCompleted.Tone())
	assert.Equal(t, "ON_HOLD", OrderStatus("ON_HOLD").Label())
	assert.Equal(t, ToneNeutral, OrderStatus("ON_HOLD").Tone())
}

func TestNewOrderStatus(t *testing.T) {
	s, err := NewOrderStatus("IN_PROGRESS")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusInProgress, s)

	_, err = NewOrderStatus("in_progress")
	assert.Error(t, err)
}

func TestRole(t *testing.T) {
	assert.Equal(t, "worker", RoleSeller.ListParam())
	assert.Equal(t, "buyer", RoleBuyer.ListParam())
	assert.Equal(t, RoleSeller, ParseRole("worker"))
	assert.Equal(t, RoleSeller, ParseRole("seller"))
	assert.Equal(t, RoleNone, ParseRole("admin"))
}

func TestReportStatus_Transitions(t *testing.T) {
	assert.True(t, ReportStatusOpen.CanTransitionTo(ReportStatusResolved))
	assert.True(t, ReportStatusOpen.CanTransitionTo(ReportStatusDismissed))
	assert.False(t, ReportStatusResolved.CanTransitionTo(ReportStatusOpen))
	assert.False(t, ReportStatusDismissed.CanTransitionTo(ReportStatusResolved))
}

func TestMoney(t *testing.T) {
	m, err := ParseMoney("Rp 1.500.000")
	assert.NoError(t, err)
	assert.True(t, m.Amount.Equal(decimal.NewFromInt(1500000)))
	assert.Equal(t, "Rp 1.500.000", m.String())

	m, err = ParseMoney("75000.5")
	assert.NoError(t, err)
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("75000.5")))

	_, err = ParseMoney("-10")
	assert.Error(t, err)

	_, err = ParseMoney("abc")
	assert.Error(t, err)

	assert.Equal(t, "Rp 50.000", Money{Amount: MinPayoutAmount}.String())
}
