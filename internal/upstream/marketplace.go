package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
)

// ListServices запрашивает каталог; параметры проходят через ServicesQuery.
func (c *Client) ListServices(ctx context.Context, query url.Values) ([]entity.Service, *entity.Pagination, error) {
	var services []entity.Service
	page, err := c.call(ctx, http.MethodGet, "/services", ServicesQuery(query), nil, &services)
	if err != nil {
		return nil, nil, err
	}
	return services, page, nil
}

func (c *Client) GetService(ctx context.Context, id string) (*entity.Service, error) {
	var service entity.Service
	if _, err := c.call(ctx, http.MethodGet, "/services/"+escape(id), nil, nil, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (c *Client) MyServices(ctx context.Context) ([]entity.Service, error) {
	var services []entity.Service
	if _, err := c.call(ctx, http.MethodGet, "/services/seller/my-services", nil, nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) ToggleService(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodPatch, "/services/"+escape(id)+"/toggle", nil, struct{}{}, nil)
	return err
}

func (c *Client) CreateReview(ctx context.Context, orderID string, req dto.ReviewRequest) (*entity.Review, error) {
	var review entity.Review
	if _, err := c.call(ctx, http.MethodPost, "/reviews/order/"+escape(orderID), nil, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) RespondReview(ctx context.Context, reviewID string, req dto.ReviewResponseRequest) error {
	_, err := c.call(ctx, http.MethodPost, "/reviews/"+escape(reviewID)+"/respond", nil, req, nil)
	return err
}

func (c *Client) OpenDispute(ctx context.Context, orderID string, req dto.DisputeRequest) (*entity.Dispute, error) {
	var dispute entity.Dispute
	if _, err := c.call(ctx, http.MethodPost, "/disputes/order/"+escape(orderID), nil, req, &dispute); err != nil {
		return nil, err
	}
	return &dispute, nil
}

func (c *Client) GetDispute(ctx context.Context, id string) (*entity.Dispute, error) {
	var dispute entity.Dispute
	if _, err := c.call(ctx, http.MethodGet, "/disputes/"+escape(id), nil, nil, &dispute); err != nil {
		return nil, err
	}
	return &dispute, nil
}

func (c *Client) CreateReport(ctx context.Context, req dto.CreateReportRequest) (*entity.Report, error) {
	var report entity.Report
	if _, err := c.call(ctx, http.MethodPost, "/reports", nil, req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// AdminReports страница списка жалоб для администратора.
func (c *Client) AdminReports(ctx context.Context, page int) ([]entity.Report, *entity.Pagination, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var reports []entity.Report
	p, err := c.call(ctx, http.MethodGet, "/reports/admin", q, nil, &reports)
	if err != nil {
		return nil, nil, err
	}
	return reports, p, nil
}

func (c *Client) UpdateReportStatus(ctx context.Context, id string, req dto.UpdateReportStatusRequest) error {
	_, err := c.call(ctx, http.MethodPatch, "/reports/admin/"+escape(id), nil, req, nil)
	return err
}
