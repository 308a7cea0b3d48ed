package workflow

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/repository"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

// Tab группа заказов на странице списка.
type Tab string

const (
	TabAll       Tab = "all"
	TabActive    Tab = "active"
	TabCompleted Tab = "completed"
	TabOther     Tab = "other"
)

// DefaultListLimit размер страницы списка заказов.
const DefaultListLimit = 50

var tabStatuses = map[Tab][]valueobject.OrderStatus{
	TabActive: {
		valueobject.OrderStatusPaidEscrow,
		valueobject.OrderStatusInProgress,
		valueobject.OrderStatusRevision,
		valueobject.OrderStatusDelivered,
	},
	TabCompleted: {valueobject.OrderStatusCompleted},
	TabOther:     {valueobject.OrderStatusCancelled, valueobject.OrderStatusDisputed},
}

func ParseTab(raw string) (Tab, error) {
	switch t := Tab(raw); t {
	case "":
		return TabAll, nil
	case TabAll, TabActive, TabCompleted, TabOther:
		return t, nil
	}
	return "", apperror.Validation(apperror.FieldError{
		Field:   "tab",
		Message: fmt.Sprintf("неизвестная вкладка %q", raw),
	})
}

// Includes сообщает, попадает ли статус во вкладку. Вкладка all включает всё.
func (t Tab) Includes(status valueobject.OrderStatus) bool {
	if t == TabAll || t == "" {
		return true
	}
	for _, s := range tabStatuses[t] {
		if s == status {
			return true
		}
	}
	return false
}

// BuyerStats сводка для покупателя по загруженной странице.
type BuyerStats struct {
	Active     int
	Completed  int
	TotalSpent decimal.Decimal
}

type OrderList struct {
	Views      []*OrderView
	Pagination *entity.Pagination
	// Stats заполняется только для роли buyer.
	Stats *BuyerStats
}

// List загружает заказы пользователя в роли role и оставляет только вкладку tab.
// Статистика считается по всей странице до фильтрации вкладкой.
func (o *Orders) List(ctx context.Context, role valueobject.Role, tab Tab, page int) (*OrderList, error) {
	if !role.IsValid() {
		return nil, apperror.Validation(apperror.FieldError{Field: "role", Message: "роль должна быть buyer или seller"})
	}

	orders, pagination, err := o.orders.ListOrders(ctx, repository.OrderFilter{
		Role:  role,
		Page:  page,
		Limit: DefaultListLimit,
	})
	if err != nil {
		return nil, err
	}

	list := &OrderList{Pagination: pagination}
	if role == valueobject.RoleBuyer {
		stats := BuyerStatsOf(orders)
		list.Stats = &stats
	}
	for i := range orders {
		if tab.Includes(orders[i].Status) {
			list.Views = append(list.Views, NewOrderView(&orders[i], o.userID))
		}
	}
	return list, nil
}

// BuyerStatsOf: активные по вкладке active, потрачено = сумма цен завершённых заказов.
func BuyerStatsOf(orders []entity.Order) BuyerStats {
	stats := BuyerStats{TotalSpent: decimal.Zero}
	for _, order := range orders {
		switch {
		case TabActive.Includes(order.Status):
			stats.Active++
		case order.Status == valueobject.OrderStatusCompleted:
			stats.Completed++
			stats.TotalSpent = stats.TotalSpent.Add(order.Price)
		}
	}
	return stats
}
