// Package workflow ведёт заказ по жизненному циклу от лица участника.
//
// Каждое действие проверяет, что оно доступно роли в текущем статусе, валидирует ввод,
// отправляет запрос и перечитывает заказ. Статус никогда не меняется локально.
package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/policy"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/repository"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/validation"
)

// OrderView снимок заказа с производными полями для отображения.
type OrderView struct {
	Order    *entity.Order
	Role     valueobject.Role
	Status   valueobject.OrderStatus
	Label    string
	Tone     valueobject.Tone
	Progress int
	Actions  policy.ActionSet
}

// NewOrderView строит представление для пользователя userID.
// Посторонний пользователь получает пустой набор действий.
func NewOrderView(order *entity.Order, userID string) *OrderView {
	role := order.RoleOf(userID)
	return &OrderView{
		Order:    order,
		Role:     role,
		Status:   order.Status,
		Label:    order.Status.Label(),
		Tone:     order.Status.Tone(),
		Progress: order.Status.Progress(),
		Actions:  policy.ForOrder(order, role),
	}
}

func (v *OrderView) Can(a policy.Action) bool {
	return v != nil && v.Actions.Has(a)
}

// Orders клиент заказов от имени одного пользователя.
type Orders struct {
	orders   repository.OrderRepository
	feedback repository.FeedbackRepository
	userID   string
}

func NewOrders(orders repository.OrderRepository, feedback repository.FeedbackRepository, userID string) *Orders {
	return &Orders{orders: orders, feedback: feedback, userID: userID}
}

func (o *Orders) Load(ctx context.Context, id string) (*OrderView, error) {
	order, err := o.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.CheckInvariants(); err != nil {
		logger.Entry().WithFields(logrus.Fields{"order_id": id, "error": err.Error()}).Warn("workflow: inconsistent order snapshot")
	}
	return NewOrderView(order, o.userID), nil
}

// Create создаёт черновик заказа (статус DRAFT).
func (o *Orders) Create(ctx context.Context, req dto.CreateOrderRequest) (*OrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	order, err := o.orders.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewOrderView(order, o.userID), nil
}

// perform общий шаг действия. При любой ошибке возвращается исходный view.
func (o *Orders) perform(ctx context.Context, view *OrderView, action policy.Action, validate func() error, submit func(ctx context.Context) error) (*OrderView, error) {
	if !view.Can(action) {
		return view, apperror.ErrActionNotAllowed
	}
	if validate != nil {
		if err := validate(); err != nil {
			return view, err
		}
	}
	if err := submit(ctx); err != nil {
		return view, err
	}

	next, err := o.orders.GetOrder(ctx, view.Order.ID)
	if err != nil {
		return view, err
	}

	entry := logger.Entry().WithFields(logrus.Fields{
		"order_id": view.Order.ID,
		"action":   string(action),
		"from":     string(view.Status),
		"to":       string(next.Status),
	})
	if err := view.Order.Successor(next); err != nil {
		entry.WithField("error", err.Error()).Warn("workflow: refetched order is not a successor")
	} else if next.Status != view.Status && !view.Status.CanTransitionTo(next.Status) {
		entry.Warn("workflow: unexpected status transition")
	} else {
		entry.Debug("workflow: action applied")
	}

	return NewOrderView(next, o.userID), nil
}

// Confirm переводит черновик в ожидание оплаты. Покупатель оплачивает по PaymentRedirectURL.
func (o *Orders) Confirm(ctx context.Context, view *OrderView) (*OrderView, *entity.PaymentSession, error) {
	var payment *entity.PaymentSession
	next, err := o.perform(ctx, view, policy.ActionConfirm, nil, func(ctx context.Context) error {
		var err error
		payment, err = o.orders.ConfirmOrder(ctx, view.Order.ID)
		return err
	})
	if err != nil {
		return next, nil, err
	}
	return next, payment, nil
}

func (o *Orders) Start(ctx context.Context, view *OrderView) (*OrderView, error) {
	return o.perform(ctx, view, policy.ActionStart, nil, func(ctx context.Context) error {
		return o.orders.StartOrder(ctx, view.Order.ID)
	})
}

func (o *Orders) LogProgress(ctx context.Context, view *OrderView, req dto.ProgressLogRequest) (*OrderView, error) {
	return o.perform(ctx, view, policy.ActionLogProgress,
		func() error { return validation.Struct(req) },
		func(ctx context.Context) error { return o.orders.LogProgress(ctx, view.Order.ID, req) },
	)
}

// Deliver сдаёт работу: нужна хотя бы одна ссылка на файл.
func (o *Orders) Deliver(ctx context.Context, view *OrderView, req dto.DeliverRequest) (*OrderView, error) {
	return o.perform(ctx, view, policy.ActionDeliver,
		func() error { return validation.Struct(req) },
		func(ctx context.Context) error { return o.orders.DeliverOrder(ctx, view.Order.ID, req) },
	)
}

func (o *Orders) Approve(ctx context.Context, view *OrderView) (*OrderView, error) {
	return o.perform(ctx, view, policy.ActionApprove, nil, func(ctx context.Context) error {
		return o.orders.ApproveOrder(ctx, view.Order.ID)
	})
}

func (o *Orders) RequestRevision(ctx context.Context, view *OrderView, req dto.RevisionRequest) (*OrderView, error) {
	return o.perform(ctx, view, policy.ActionRequestRevision,
		func() error { return validation.Revision(view.Order, req) },
		func(ctx context.Context) error { return o.orders.RequestRevision(ctx, view.Order.ID, req) },
	)
}

func (o *Orders) OpenDispute(ctx context.Context, view *OrderView, req dto.DisputeRequest) (*OrderView, *entity.Dispute, error) {
	var dispute *entity.Dispute
	next, err := o.perform(ctx, view, policy.ActionDispute,
		func() error { return validation.Struct(req) },
		func(ctx context.Context) error {
			var err error
			dispute, err = o.feedback.OpenDispute(ctx, view.Order.ID, req)
			return err
		},
	)
	if err != nil {
		return next, nil, err
	}
	return next, dispute, nil
}

// Dispute читает спор по заказу в статусе DISPUTED.
func (o *Orders) Dispute(ctx context.Context, view *OrderView, disputeID string) (*entity.Dispute, error) {
	if !view.Can(policy.ActionViewDispute) {
		return nil, apperror.ErrActionNotAllowed
	}
	return o.feedback.GetDispute(ctx, disputeID)
}

func (o *Orders) Review(ctx context.Context, view *OrderView, req dto.ReviewRequest) (*OrderView, *entity.Review, error) {
	var review *entity.Review
	next, err := o.perform(ctx, view, policy.ActionReview,
		func() error { return validation.Struct(req) },
		func(ctx context.Context) error {
			var err error
			review, err = o.feedback.CreateReview(ctx, view.Order.ID, req)
			return err
		},
	)
	if err != nil {
		return next, nil, err
	}
	return next, review, nil
}

// RespondReview ответ исполнителя на отзыв по завершённому заказу.
func (o *Orders) RespondReview(ctx context.Context, view *OrderView, reviewID string, req dto.ReviewResponseRequest) (*OrderView, error) {
	return o.perform(ctx, view, policy.ActionRespondReview,
		func() error {
			if reviewID == "" {
				return apperror.Validation(apperror.FieldError{Field: "reviewId", Message: "не указан отзыв"})
			}
			return validation.Struct(req)
		},
		func(ctx context.Context) error { return o.feedback.RespondReview(ctx, reviewID, req) },
	)
}
