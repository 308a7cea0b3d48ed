package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
)

func (c *Client) Profile(ctx context.Context) (*entity.User, error) {
	var user entity.User
	if _, err := c.call(ctx, http.MethodGet, "/users/profile", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ActivateSeller(ctx context.Context, req dto.ActivateSellerRequest) error {
	_, err := c.call(ctx, http.MethodPost, "/users/activate-seller", nil, req, nil)
	return err
}

// Logout инвалидирует токен на стороне backend.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodPost, "/auth/logout", nil, struct{}{}, nil)
	return err
}

// LoginURL адрес, на который отправляется пользователь для входа через Google.
func (c *Client) LoginURL() string {
	if !c.Configured() {
		return ""
	}
	return c.baseURL + "/auth/google"
}

func (c *Client) Balance(ctx context.Context) (decimal.Decimal, error) {
	var balance entity.Balance
	if _, err := c.call(ctx, http.MethodGet, "/wallet/balance", nil, nil, &balance); err != nil {
		return decimal.Zero, err
	}
	return balance.Balance, nil
}

func (c *Client) PayoutAccounts(ctx context.Context) ([]entity.PayoutAccount, error) {
	var accounts []entity.PayoutAccount
	if _, err := c.call(ctx, http.MethodGet, "/wallet/payout-accounts", nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) CreatePayoutAccount(ctx context.Context, req dto.PayoutAccountRequest) (*entity.PayoutAccount, error) {
	var account entity.PayoutAccount
	if _, err := c.call(ctx, http.MethodPost, "/wallet/payout-accounts", nil, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) PayoutRequests(ctx context.Context) ([]entity.PayoutRequest, error) {
	var requests []entity.PayoutRequest
	if _, err := c.call(ctx, http.MethodGet, "/wallet/payout-requests", nil, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) RequestPayout(ctx context.Context, req dto.PayoutRequest) (*entity.PayoutRequest, error) {
	var request entity.PayoutRequest
	if _, err := c.call(ctx, http.MethodPost, "/wallet/payout-request", nil, req, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (c *Client) Notifications(ctx context.Context, page, limit int) ([]entity.Notification, *entity.Pagination, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var items []entity.Notification
	p, err := c.call(ctx, http.MethodGet, "/notifications", q, nil, &items)
	if err != nil {
		return nil, nil, err
	}
	return items, p, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var payload struct {
		Count int `json:"count"`
	}
	if _, err := c.call(ctx, http.MethodGet, "/notifications/unread-count", nil, nil, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodPost, "/notifications/"+escape(id)+"/read", nil, struct{}{}, nil)
	return err
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodPost, "/notifications/read-all", nil, struct{}{}, nil)
	return err
}
