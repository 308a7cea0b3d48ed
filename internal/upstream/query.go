package upstream

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
)

// DefaultServicesLimit размер страницы каталога, если клиент его не указал.
const DefaultServicesLimit = 12

const maxLimit = 100

// ServicesQuery оставляет только параметры каталога и подставляет limit по умолчанию.
// Значения "all" у фильтров означают отсутствие фильтра.
func ServicesQuery(in url.Values) url.Values {
	out := url.Values{}

	if page, ok := positiveInt(in.Get("page")); ok {
		out.Set("page", strconv.Itoa(page))
	}
	limit, ok := positiveInt(in.Get("limit"))
	if !ok {
		limit = DefaultServicesLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	out.Set("limit", strconv.Itoa(limit))

	if category := in.Get("category"); category != "" && category != "all" {
		out.Set("category", category)
	}
	for _, key := range []string{"priceMin", "priceMax", "ratingMin"} {
		raw := in.Get(key)
		if raw == "" || raw == "all" {
			continue
		}
		if d, err := decimal.NewFromString(raw); err == nil && !d.IsNegative() {
			out.Set(key, raw)
		}
	}
	if sortBy := valueobject.ServiceSort(in.Get("sortBy")); sortBy.IsValid() {
		out.Set("sortBy", string(sortBy))
	}
	if q := in.Get("q"); q != "" {
		out.Set("q", q)
	}
	return out
}

// OrdersQuery параметры списка заказов: роль, статус, пагинация.
func OrdersQuery(in url.Values) url.Values {
	out := url.Values{}
	if role := valueobject.ParseRole(in.Get("role")); role.IsValid() {
		out.Set("role", role.ListParam())
	}
	if status, err := valueobject.NewOrderStatus(in.Get("status")); err == nil {
		out.Set("status", string(status))
	}
	copyPaging(in, out)
	return out
}

// PagingQuery только page и limit.
func PagingQuery(in url.Values) url.Values {
	out := url.Values{}
	copyPaging(in, out)
	return out
}

func copyPaging(in, out url.Values) {
	if page, ok := positiveInt(in.Get("page")); ok {
		out.Set("page", strconv.Itoa(page))
	}
	if limit, ok := positiveInt(in.Get("limit")); ok {
		if limit > maxLimit {
			limit = maxLimit
		}
		out.Set("limit", strconv.Itoa(limit))
	}
}

func positiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
