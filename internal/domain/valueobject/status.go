package valueobject

import "github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"

type OrderStatus string

const (
	OrderStatusDraft          OrderStatus = "DRAFT"
	OrderStatusWaitingPayment OrderStatus = "WAITING_PAYMENT"
	OrderStatusPaidEscrow     OrderStatus = "PAID_ESCROW"
	OrderStatusInProgress     OrderStatus = "IN_PROGRESS"
	OrderStatusRevision       OrderStatus = "REVISION"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusDisputed       OrderStatus = "DISPUTED"
)

// OrderStatuses перечисляет все статусы в порядке жизненного цикла.
var OrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusWaitingPayment,
	OrderStatusPaidEscrow,
	OrderStatusInProgress,
	OrderStatusRevision,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusDisputed,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:          {OrderStatusWaitingPayment, OrderStatusCancelled},
	OrderStatusWaitingPayment: {OrderStatusPaidEscrow, OrderStatusCancelled},
	OrderStatusPaidEscrow:     {OrderStatusInProgress, OrderStatusDisputed, OrderStatusCancelled},
	OrderStatusInProgress:     {OrderStatusDelivered, OrderStatusDisputed},
	OrderStatusRevision:       {OrderStatusDelivered, OrderStatusDisputed},
	OrderStatusDelivered:      {OrderStatusCompleted, OrderStatusRevision, OrderStatusDisputed},
	OrderStatusCompleted:      {},
	OrderStatusCancelled:      {},
	// Разрешение спора происходит на стороне администратора.
	OrderStatusDisputed: {},
}

var orderProgress = map[OrderStatus]int{
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

// Tone определяет цветовую группу бейджа статуса.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneAccent  Tone = "accent"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

type statusBadge struct {
	label string
	tone  Tone
}

var orderBadges = map[OrderStatus]statusBadge{
	OrderStatusDraft:          {"Draf", ToneNeutral},
	OrderStatusWaitingPayment: {"Menunggu Pembayaran", ToneNeutral},
	OrderStatusPaidEscrow:     {"Perlu Dikerjakan", ToneInfo},
	OrderStatusInProgress:     {"Sedang Dikerjakan", ToneWarning},
	OrderStatusRevision:       {"Revisi", ToneWarning},
	OrderStatusDelivered:      {"Terkirim", ToneAccent},
	OrderStatusCompleted:      {"Selesai", ToneSuccess},
	OrderStatusCancelled:      {"Dibatalkan", ToneDanger},
	OrderStatusDisputed:       {"Sengketa", ToneDanger},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	for _, status := range orderTransitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

// IsTerminal сообщает, что из статуса нет пользовательских переходов.
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderTransitions[s]) == 0
}

// Progress возвращает декоративный процент выполнения. Для неизвестного статуса 0.
func (s OrderStatus) Progress() int {
	return orderProgress[s]
}

// Label возвращает подпись статуса для интерфейса; неизвестный статус выводится как есть.
func (s OrderStatus) Label() string {
	if badge, ok := orderBadges[s]; ok {
		return badge.label
	}
	return string(s)
}

func (s OrderStatus) Tone() Tone {
	if badge, ok := orderBadges[s]; ok {
		return badge.tone
	}
	return ToneNeutral
}

// ReachedPayment истинна для статусов, в которых оплата уже поступила в escrow.
func (s OrderStatus) ReachedPayment() bool {
	switch s {
	case OrderStatusPaidEscrow, OrderStatusInProgress, OrderStatusRevision,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusDisputed:
		return true
	}
	return false
}

func NewOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
	}
	return s, nil
}
