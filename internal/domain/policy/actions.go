// Package policy определяет, какие действия над заказом доступны участнику.
// Это единственное место, где хранится таблица (статус, роль) -> действия.
package policy

import (
	"sort"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
)

type Action string

const (
	ActionConfirm         Action = "confirm"
	ActionPay             Action = "pay"
	ActionStart           Action = "start"
	ActionLogProgress     Action = "logProgress"
	ActionDeliver         Action = "deliver"
	ActionApprove         Action = "approve"
	ActionRequestRevision Action = "requestRevision"
	ActionDispute         Action = "dispute"
	ActionReview          Action = "review"
	ActionRespondReview   Action = "respondReview"
	ActionViewDispute     Action = "viewDispute"
)

// ActionSet неупорядоченный набор действий.
type ActionSet map[Action]struct{}

func newSet(actions ...Action) ActionSet {
	set := make(ActionSet, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// Sorted возвращает действия в стабильном порядке для вывода и сравнения.
func (s ActionSet) Sorted() []Action {
	out := make([]Action, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type key struct {
	status valueobject.OrderStatus
	role   valueobject.Role
}

var table = map[key][]Action{
	{valueobject.OrderStatusDraft, valueobject.RoleBuyer}:          {ActionConfirm},
	{valueobject.OrderStatusWaitingPayment, valueobject.RoleBuyer}: {ActionPay},

	{valueobject.OrderStatusPaidEscrow, valueobject.RoleSeller}: {ActionStart},
	{valueobject.OrderStatusPaidEscrow, valueobject.RoleBuyer}:  {ActionDispute},

	{valueobject.OrderStatusInProgress, valueobject.RoleSeller}: {ActionDeliver, ActionLogProgress},
	{valueobject.OrderStatusInProgress, valueobject.RoleBuyer}:  {ActionDispute},
	{valueobject.OrderStatusRevision, valueobject.RoleSeller}:   {ActionDeliver, ActionLogProgress},
	{valueobject.OrderStatusRevision, valueobject.RoleBuyer}:    {ActionDispute},

	{valueobject.OrderStatusDelivered, valueobject.RoleBuyer}: {ActionApprove, ActionRequestRevision, ActionDispute},

	{valueobject.OrderStatusCompleted, valueobject.RoleBuyer}:  {ActionReview},
	{valueobject.OrderStatusCompleted, valueobject.RoleSeller}: {ActionRespondReview},

	{valueobject.OrderStatusDisputed, valueobject.RoleBuyer}:  {ActionViewDispute},
	{valueobject.OrderStatusDisputed, valueobject.RoleSeller}: {ActionViewDispute},
}

// AllowedActions чистая функция (статус, роль) -> набор действий.
// Для пар вне таблицы, неизвестных статусов и посторонних пользователей набор пуст.
func AllowedActions(status valueobject.OrderStatus, role valueobject.Role) ActionSet {
	return newSet(table[key{status, role}]...)
}

// ForOrder уточняет набор по данным конкретного заказа: ревизия скрывается, когда лимит исчерпан.
func ForOrder(order *entity.Order, role valueobject.Role) ActionSet {
	set := AllowedActions(order.Status, role)
	if set.Has(ActionRequestRevision) && !order.CanRequestRevision() {
		delete(set, ActionRequestRevision)
	}
	return set
}
