package repository

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
)

type ServiceRepository interface {
	ListServices(ctx context.Context, query url.Values) ([]entity.Service, *entity.Pagination, error)
	GetService(ctx context.Context, id string) (*entity.Service, error)
	MyServices(ctx context.Context) ([]entity.Service, error)
	ToggleService(ctx context.Context, id string) error
}

type WalletRepository interface {
	Balance(ctx context.Context) (decimal.Decimal, error)
	PayoutAccounts(ctx context.Context) ([]entity.PayoutAccount, error)
	CreatePayoutAccount(ctx context.Context, req dto.PayoutAccountRequest) (*entity.PayoutAccount, error)
	PayoutRequests(ctx context.Context) ([]entity.PayoutRequest, error)
	RequestPayout(ctx context.Context, req dto.PayoutRequest) (*entity.PayoutRequest, error)
}

type ReportRepository interface {
	CreateReport(ctx context.Context, req dto.CreateReportRequest) (*entity.Report, error)
	AdminReports(ctx context.Context, page int) ([]entity.Report, *entity.Pagination, error)
	UpdateReportStatus(ctx context.Context, id string, req dto.UpdateReportStatusRequest) error
}

// ServiceFilter фильтры каталога услуг.
type ServiceFilter struct {
	Page      int
	Limit     int
	Category  string
	PriceMin  string
	PriceMax  string
	RatingMin string
	SortBy    string
	Query     string
}

// Values переводит фильтр в параметры запроса (до нормализации).
func (f ServiceFilter) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	set("category", f.Category)
	set("priceMin", f.PriceMin)
	set("priceMax", f.PriceMax)
	set("ratingMin", f.RatingMin)
	set("sortBy", f.SortBy)
	set("q", f.Query)
	return v
}
