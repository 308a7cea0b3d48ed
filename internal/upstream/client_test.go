package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/repository"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestClient_GetOrder_DecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/ord-1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"ord-1","status":"IN_PROGRESS","price":"250000","maxRevisions":2}}`))
	}).WithToken("tok")

	order, err := client.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, valueobject.OrderStatusInProgress, order.Status)
	assert.True(t, order.Price.Equal(decimal.NewFromInt(250000)))
}

func TestClient_Rejection_KeepsMessageAndStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"message":"Order tidak dalam status DELIVERED"}`))
	})

	err := client.ApproveOrder(context.Background(), "ord-1")

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.ErrCodeUpstreamRejected, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	assert.Equal(t, "Order tidak dalam status DELIVERED", appErr.Message)
}

func TestClient_Rejection_ErrorField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"Token tidak valid"}`))
	})

	_, err := client.Profile(context.Background())
	assert.True(t, apperror.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Token tidak valid")
}

func TestClient_SuccessFalseWith200IsRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Saldo tidak cukup"}`))
	})

	_, err := client.RequestPayout(context.Background(), dto.PayoutRequest{Amount: decimal.NewFromInt(60000), PayoutAccountID: "a"})
	assert.True(t, apperror.IsUpstreamRejected(err))
}

func TestClient_NonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway timeout</html>`))
	})

	_, err := client.GetOrder(context.Background(), "ord-1")
	assert.True(t, apperror.IsUnavailable(err))
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).GetOrder(context.Background(), "ord-1")
	assert.True(t, apperror.IsUnavailable(err))
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient("", time.Second).Profile(context.Background())
	assert.ErrorIs(t, err, apperror.ErrNotConfigured)
}

func TestClient_SendsJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/ord-9/deliver", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "Sudah selesai dikerjakan", body["deliveryNote"])
		assert.Len(t, body["deliveryFiles"], 1)

		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	})

	err := client.DeliverOrder(context.Background(), "ord-9", dto.DeliverRequest{
		DeliveryNote:  "Sudah selesai dikerjakan",
		DeliveryFiles: []string{"https://cdn.bantuin.id/final.zip"},
	})
	assert.NoError(t, err)
}

func TestClient_ListOrders_Query(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "worker", r.URL.Query().Get("role"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"a","status":"PAID_ESCROW"},{"id":"b","status":"COMPLETED"}]}`))
	})

	orders, _, err := client.ListOrders(context.Background(), repository.OrderFilter{Role: valueobject.RoleSeller, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestClient_UnreadCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications/unread-count", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"count":4}}`))
	})

	count, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestClient_EscapesPathIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/a%2Fb", r.URL.RawPath)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"a/b"}}`))
	})

	_, err := client.GetOrder(context.Background(), "a/b")
	assert.NoError(t, err)
}

func TestClient_ListServices_Pagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"s1","price":50000}],"pagination":{"total":13,"page":2,"limit":12,"totalPages":2}}`))
	})

	services, page, err := client.ListServices(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, services, 1)
	require.NotNil(t, page)
	assert.Equal(t, 13, page.Total)
	assert.False(t, page.HasNext())
}
