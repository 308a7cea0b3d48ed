package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

// Order снимок заказа в том виде, в каком его возвращает backend.
// Клиент никогда не меняет статус локально: новый снимок приходит только после перечитывания.
type Order struct {
	ID            string                  `json:"id"`
	Title         string                  `json:"title"`
	Price         decimal.Decimal         `json:"price"`
	Status        valueobject.OrderStatus `json:"status"`
	DueDate       *time.Time              `json:"dueDate,omitempty"`
	Requirements  string                  `json:"requirements"`
	Attachments   []string                `json:"attachments"`
	DeliveryFiles []string                `json:"deliveryFiles"`
	DeliveryNote  string                  `json:"deliveryNote,omitempty"`
	RevisionNotes []string                `json:"revisionNotes"`
	RevisionCount int                     `json:"revisionCount"`
	MaxRevisions  int                     `json:"maxRevisions"`
	ProgressLogs  []ProgressLog           `json:"progressLogs"`

	CreatedAt   time.Time  `json:"createdAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	BuyerID   string       `json:"buyerId"`
	WorkerID  string       `json:"workerId"`
	ServiceID string       `json:"serviceId"`
	Buyer     *UserSummary `json:"buyer,omitempty"`
	Worker    *UserSummary `json:"worker,omitempty"`
	Service   *ServiceRef  `json:"service,omitempty"`
}

// ProgressLog запись о ходе работы, которую добавляет исполнитель.
type ProgressLog struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ServiceRef краткое описание купленной услуги внутри заказа.
type ServiceRef struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Images []string `json:"images"`
}

// RoleOf определяет роль пользователя в заказе.
func (o *Order) RoleOf(userID string) valueobject.Role {
	if userID == "" {
		return valueobject.RoleNone
	}
	switch userID {
	case o.buyerID():
		return valueobject.RoleBuyer
	case o.workerID():
		return valueobject.RoleSeller
	}
	return valueobject.RoleNone
}

func (o *Order) buyerID() string {
	if o.BuyerID == "" && o.Buyer != nil {
		return o.Buyer.ID
	}
	return o.BuyerID
}

func (o *Order) workerID() string {
	if o.WorkerID == "" && o.Worker != nil {
		return o.Worker.ID
	}
	return o.WorkerID
}

// RevisionsLeft возвращает количество оставшихся ревизий.
func (o *Order) RevisionsLeft() int {
	left := o.MaxRevisions - o.RevisionCount
	if left < 0 {
		return 0
	}
	return left
}

func (o *Order) CanRequestRevision() bool {
	return o.RevisionCount < o.MaxRevisions
}

// LatestRevisionNote последняя заметка покупателя к ревизии.
func (o *Order) LatestRevisionNote() string {
	if len(o.RevisionNotes) == 0 {
		return ""
	}
	return o.RevisionNotes[len(o.RevisionNotes)-1]
}

// CheckInvariants проверяет согласованность снимка, полученного от backend.
func (o *Order) CheckInvariants() error {
	if o.RevisionCount > o.MaxRevisions {
		return apperror.New(apperror.ErrCodeInternal, "количество ревизий превышает лимит")
	}
	if o.CompletedAt != nil && o.Status != valueobject.OrderStatusCompleted {
		return apperror.New(apperror.ErrCodeInternal, "заказ завершён, но статус не COMPLETED")
	}
	if o.PaidAt != nil && o.Status.IsValid() && !o.Status.ReachedPayment() && o.Status != valueobject.OrderStatusCancelled {
		return apperror.New(apperror.ErrCodeInternal, "заказ оплачен, но статус предшествует оплате")
	}
	return nil
}

// Successor сравнивает два снимка одного заказа: новый не должен терять необратимые поля.
func (o *Order) Successor(next *Order) error {
	if next == nil || next.ID != o.ID {
		return apperror.New(apperror.ErrCodeInternal, "получен снимок другого заказа")
	}
	if next.RevisionCount < o.RevisionCount {
		return apperror.New(apperror.ErrCodeInternal, "счётчик ревизий уменьшился")
	}
	if len(next.RevisionNotes) < len(o.RevisionNotes) {
		return apperror.New(apperror.ErrCodeInternal, "история ревизий сократилась")
	}
	for _, pair := range [][2]*time.Time{
		{o.PaidAt, next.PaidAt},
		{o.DeliveredAt, next.DeliveredAt},
		{o.CompletedAt, next.CompletedAt},
	} {
		if pair[0] != nil && pair[1] == nil {
			return apperror.New(apperror.ErrCodeInternal, "временная метка заказа была сброшена")
		}
	}
	return nil
}
