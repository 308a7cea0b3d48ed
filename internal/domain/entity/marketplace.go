package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
)

type Service struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	DeliveryTime int             `json:"deliveryTime"`
	Revisions    int             `json:"revisions"`
	Images       []string        `json:"images"`
	IsActive     bool            `json:"isActive"`
	Rating       float64         `json:"averageRating"`
	TotalReviews int             `json:"totalReviews"`
	SellerID     string          `json:"sellerId"`
	Seller       *UserSummary    `json:"seller,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Pagination метаданные списка в формате backend.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

type Review struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Response  *string   `json:"response,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Dispute struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"orderId"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	Resolution *string    `json:"resolution,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

type Report struct {
	ID             string                   `json:"id"`
	Reason         string                   `json:"reason"`
	Description    string                   `json:"description"`
	Status         valueobject.ReportStatus `json:"status"`
	ReporterID     string                   `json:"reporterId"`
	ReportedUserID string                   `json:"reportedUserId"`
	Reporter       *UserSummary             `json:"reporter,omitempty"`
	ReportedUser   *UserSummary             `json:"reportedUser,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
}

type Notification struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	Link      *string   `json:"link,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type PayoutAccount struct {
	ID            string `json:"id"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type PayoutRequest struct {
	ID              string                   `json:"id"`
	Amount          decimal.Decimal          `json:"amount"`
	Status          valueobject.PayoutStatus `json:"status"`
	PayoutAccountID string                   `json:"payoutAccountId"`
	PayoutAccount   *PayoutAccount           `json:"payoutAccount,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
}

type Balance struct {
	Balance decimal.Decimal `json:"balance"`
}

// PaymentSession ответ на подтверждение заказа: куда отправить покупателя для оплаты.
type PaymentSession struct {
	PaymentToken       string `json:"paymentToken"`
	PaymentRedirectURL string `json:"paymentRedirectUrl"`
}
