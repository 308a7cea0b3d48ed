package proxy

import (
	"net/http"

	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/upstream"
)

// Routes таблица маршрутов шлюза. Пути относительны группы /api; если Upstream не задан,
// путь backend совпадает с путём шлюза.
func Routes() []Route {
	return []Route{
		// Заказы
		{Method: http.MethodPost, Path: "/orders", Auth: true},
		{Method: http.MethodGet, Path: "/orders", Auth: true, Query: upstream.OrdersQuery},
		{Method: http.MethodGet, Path: "/orders/:id", Auth: true},
		{Method: http.MethodPost, Path: "/orders/:id/confirm", Auth: true},
		{Method: http.MethodPost, Path: "/orders/:id/approve", Auth: true},
		{Method: http.MethodPost, Path: "/orders/:id/revision", Auth: true, Precheck: bodyOf[dto.RevisionRequest]()},
		{Method: http.MethodPost, Path: "/orders/:id/start", Auth: true},
		{Method: http.MethodPost, Path: "/orders/:id/deliver", Auth: true, Precheck: bodyOf[dto.DeliverRequest]()},
		{Method: http.MethodPost, Path: "/orders/:id/progress", Auth: true},

		// Каталог услуг
		{Method: http.MethodGet, Path: "/services", Query: upstream.ServicesQuery},
		{Method: http.MethodGet, Path: "/services/seller/my-services", Auth: true},
		{Method: http.MethodGet, Path: "/services/:id"},
		{Method: http.MethodPost, Path: "/services", Auth: true},
		{Method: http.MethodPatch, Path: "/services/:id", Auth: true},
		{Method: http.MethodPatch, Path: "/services/:id/toggle", Auth: true},
		{Method: http.MethodDelete, Path: "/services/:id", Auth: true},

		// Отзывы
		{Method: http.MethodPost, Path: "/reviews/order/:orderId", Auth: true, Precheck: bodyOf[dto.ReviewRequest]()},
		{Method: http.MethodPost, Path: "/reviews/:id/respond", Auth: true, Precheck: bodyOf[dto.ReviewResponseRequest]()},

		// Жалобы
		{Method: http.MethodPost, Path: "/reports", Auth: true, Precheck: bodyOf[dto.CreateReportRequest]()},
		{Method: http.MethodGet, Path: "/admin/reports", Upstream: "/reports/admin", Auth: true, Query: upstream.PagingQuery},
		{Method: http.MethodPatch, Path: "/admin/reports/:id", Upstream: "/reports/admin/:id", Auth: true, Precheck: bodyOf[dto.UpdateReportStatusRequest]()},

		// Споры
		{Method: http.MethodPost, Path: "/disputes/order/:orderId", Auth: true, Precheck: bodyOf[dto.DisputeRequest]()},
		{Method: http.MethodGet, Path: "/disputes/:disputeId", Auth: true},

		// Кошелёк
		{Method: http.MethodGet, Path: "/wallet/balance", Auth: true},
		{Method: http.MethodGet, Path: "/wallet/payout-accounts", Auth: true},
		{Method: http.MethodPost, Path: "/wallet/payout-accounts", Auth: true},
		{Method: http.MethodDelete, Path: "/wallet/payout-accounts/:id", Auth: true},
		{Method: http.MethodGet, Path: "/wallet/payout-requests", Auth: true, Query: upstream.PagingQuery},
		{Method: http.MethodPost, Path: "/wallet/payout-request", Auth: true, Precheck: bodyOf[dto.PayoutRequest]()},

		// Уведомления
		{Method: http.MethodGet, Path: "/notifications", Auth: true, Query: upstream.PagingQuery},
		{Method: http.MethodGet, Path: "/notifications/unread-count", Auth: true},
		{Method: http.MethodPost, Path: "/notifications/read-all", Auth: true},
		{Method: http.MethodPost, Path: "/notifications/:id/read", Auth: true},

		// Пользователь
		{Method: http.MethodGet, Path: "/users/profile", Auth: true},
		{Method: http.MethodPost, Path: "/users/activate-seller", Auth: true},
		{Method: http.MethodPost, Path: "/auth/logout", Auth: true},
	}
}
