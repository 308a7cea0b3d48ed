package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/repository"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
)

// orderQuery параметры GET /orders.
func orderQuery(f repository.OrderFilter) url.Values {
	q := url.Values{}
	if f.Role.IsValid() {
		q.Set("role", f.Role.ListParam())
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

func orderPath(id string, action string) string {
	p := "/orders/" + escape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*entity.Order, error) {
	var order entity.Order
	if _, err := c.call(ctx, http.MethodPost, "/orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	if _, err := c.call(ctx, http.MethodGet, orderPath(id, ""), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]entity.Order, *entity.Pagination, error) {
	var orders []entity.Order
	page, err := c.call(ctx, http.MethodGet, "/orders", orderQuery(filter), nil, &orders)
	if err != nil {
		return nil, nil, err
	}
	return orders, page, nil
}

// ConfirmOrder переводит DRAFT в WAITING_PAYMENT и возвращает данные платёжной сессии.
func (c *Client) ConfirmOrder(ctx context.Context, id string) (*entity.PaymentSession, error) {
	var session entity.PaymentSession
	if _, err := c.call(ctx, http.MethodPost, orderPath(id, "confirm"), nil, struct{}{}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) StartOrder(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodPost, orderPath(id, "start"), nil, struct{}{}, nil)
	return err
}

func (c *Client) LogProgress(ctx context.Context, id string, req dto.ProgressLogRequest) error {
	_, err := c.call(ctx, http.MethodPost, orderPath(id, "progress"), nil, req, nil)
	return err
}

func (c *Client) DeliverOrder(ctx context.Context, id string, req dto.DeliverRequest) error {
	_, err := c.call(ctx, http.MethodPost, orderPath(id, "deliver"), nil, req, nil)
	return err
}

func (c *Client) ApproveOrder(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodPost, orderPath(id, "approve"), nil, struct{}{}, nil)
	return err
}

func (c *Client) RequestRevision(ctx context.Context, id string, req dto.RevisionRequest) error {
	_, err := c.call(ctx, http.MethodPost, orderPath(id, "revision"), nil, req, nil)
	return err
}

var (
	_ repository.OrderRepository    = (*Client)(nil)
	_ repository.FeedbackRepository = (*Client)(nil)
	_ repository.ServiceRepository  = (*Client)(nil)
	_ repository.WalletRepository   = (*Client)(nil)
	_ repository.ReportRepository   = (*Client)(nil)
)
