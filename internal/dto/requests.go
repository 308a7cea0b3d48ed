package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest тело POST /orders (заказ создаётся в статусе DRAFT)
type CreateOrderRequest struct {
	ServiceID    string     `json:"serviceId" binding:"required"`
	Requirements string     `json:"requirements" binding:"required,minrunes=10,maxrunes=5000"`
	Attachments  []string   `json:"attachments,omitempty" binding:"max=10,dive,required"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
}

// DeliverRequest тело POST /orders/:id/deliver
type DeliverRequest struct {
	DeliveryNote  string   `json:"deliveryNote" binding:"minrunes=10,maxrunes=5000"`
	DeliveryFiles []string `json:"deliveryFiles" binding:"min=1,max=10,dive,required"`
}

// RevisionRequest тело POST /orders/:id/revision
type RevisionRequest struct {
	RevisionNote string   `json:"revisionNote" binding:"minrunes=10,maxrunes=2000"`
	Attachments  []string `json:"attachments,omitempty" binding:"max=10,dive,required"`
}

// ProgressLogRequest тело POST /orders/:id/progress
type ProgressLogRequest struct {
	Title       string   `json:"title" binding:"minrunes=3,maxrunes=200"`
	Description string   `json:"description" binding:"minrunes=10,maxrunes=2000"`
	Images      []string `json:"images,omitempty" binding:"max=5,dive,required"`
}

// DisputeRequest тело POST /disputes/order/:orderId
type DisputeRequest struct {
	Reason string `json:"reason" binding:"minrunes=50,maxrunes=2000"`
}

// ReviewRequest тело POST /reviews/order/:orderId
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"min=1,max=5"`
	Comment string `json:"comment" binding:"minrunes=10,maxrunes=1000"`
}

// ReviewResponseRequest тело POST /reviews/:id/respond
type ReviewResponseRequest struct {
	Response string `json:"response" binding:"minrunes=10,maxrunes=1000"`
}

// CreateReportRequest тело POST /reports
type CreateReportRequest struct {
	ReportedUserID string `json:"reportedUserId" binding:"required"`
	Reason         string `json:"reason" binding:"reportreason"`
	Description    string `json:"description" binding:"minrunes=10,maxrunes=2000"`
}

// UpdateReportStatusRequest тело PATCH /reports/admin/:id
type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"oneof=RESOLVED DISMISSED"`
}

// PayoutAccountRequest тело POST /wallet/payout-accounts
type PayoutAccountRequest struct {
	BankName      string `json:"bankName" binding:"required,maxrunes=100"`
	AccountNumber string `json:"accountNumber" binding:"required,numeric,min=6,max=20"`
	AccountName   string `json:"accountName" binding:"required,minrunes=3,maxrunes=100"`
}

// PayoutRequest тело POST /wallet/payout-request
type PayoutRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"gte=50000"`
	PayoutAccountID string          `json:"payoutAccountId" binding:"required"`
}

// ActivateSellerRequest тело POST /users/activate-seller
type ActivateSellerRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
	Bio         string `json:"bio" binding:"minrunes=10,maxrunes=1000"`
}
