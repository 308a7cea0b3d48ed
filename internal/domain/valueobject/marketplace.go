package valueobject

import "github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"

type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "OPEN"
	ReportStatusResolved  ReportStatus = "RESOLVED"
	ReportStatusDismissed ReportStatus = "DISMISSED"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusOpen, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// CanTransitionTo: жалоба закрывается один раз, повторное открытие не поддерживается.
func (s ReportStatus) CanTransitionTo(newStatus ReportStatus) bool {
	return s == ReportStatusOpen && (newStatus == ReportStatusResolved || newStatus == ReportStatusDismissed)
}

func NewReportStatus(status string) (ReportStatus, error) {
	s := ReportStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус жалобы")
	}
	return s, nil
}

// ReportReasons допустимые причины жалобы (значения backend).
var ReportReasons = []string{"Spam", "Penipuan", "Pelecehan", "Identitas Palsu", "Lainnya"}

func IsReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "PENDING"
	PayoutStatusCompleted PayoutStatus = "COMPLETED"
	PayoutStatusRejected  PayoutStatus = "REJECTED"
)

func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusCompleted, PayoutStatusRejected:
		return true
	}
	return false
}

// ServiceSort варианты сортировки каталога услуг.
type ServiceSort string

const (
	SortNewest    ServiceSort = "newest"
	SortPopular   ServiceSort = "popular"
	SortRating    ServiceSort = "rating"
	SortPriceLow  ServiceSort = "price-low"
	SortPriceHigh ServiceSort = "price-high"
)

func (s ServiceSort) IsValid() bool {
	switch s {
	case SortNewest, SortPopular, SortRating, SortPriceLow, SortPriceHigh:
		return true
	}
	return false
}
