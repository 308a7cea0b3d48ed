package repository

import (
	"context"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
)

// OrderRepository заказы на стороне backend. Реализация: upstream.Client с токеном пользователя.
type OrderRepository interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]entity.Order, *entity.Pagination, error)

	ConfirmOrder(ctx context.Context, id string) (*entity.PaymentSession, error)
	StartOrder(ctx context.Context, id string) error
	LogProgress(ctx context.Context, id string, req dto.ProgressLogRequest) error
	DeliverOrder(ctx context.Context, id string, req dto.DeliverRequest) error
	ApproveOrder(ctx context.Context, id string) error
	RequestRevision(ctx context.Context, id string, req dto.RevisionRequest) error
}

// FeedbackRepository отзывы и споры по заказу.
type FeedbackRepository interface {
	CreateReview(ctx context.Context, orderID string, req dto.ReviewRequest) (*entity.Review, error)
	RespondReview(ctx context.Context, reviewID string, req dto.ReviewResponseRequest) error
	OpenDispute(ctx context.Context, orderID string, req dto.DisputeRequest) (*entity.Dispute, error)
	GetDispute(ctx context.Context, id string) (*entity.Dispute, error)
}

type OrderFilter struct {
	Role   valueobject.Role
	Status valueobject.OrderStatus
	Page   int
	Limit  int
}
