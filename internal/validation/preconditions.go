package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

// Revision проверяет запрос ревизии с учётом лимита заказа.
func Revision(order *entity.Order, req dto.RevisionRequest) error {
	if !order.CanRequestRevision() {
		return apperror.Validation(apperror.FieldError{
			Field:   "revisionNote",
			Message: fmt.Sprintf("лимит ревизий исчерпан (%d из %d)", order.RevisionCount, order.MaxRevisions),
		})
	}
	return Struct(req)
}

// Payout проверяет заявку на вывод: минимальная сумма, достаточный баланс, выбранный счёт.
func Payout(req dto.PayoutRequest, balance decimal.Decimal) error {
	var fields []apperror.FieldError

	if req.Amount.LessThan(valueobject.MinPayoutAmount) {
		fields = append(fields, apperror.FieldError{
			Field:   "amount",
			Message: fmt.Sprintf("минимальная сумма вывода %s", valueobject.Money{Amount: valueobject.MinPayoutAmount}),
		})
	} else if req.Amount.GreaterThan(balance) {
		fields = append(fields, apperror.FieldError{
			Field:   "amount",
			Message: fmt.Sprintf("сумма превышает доступный баланс %s", valueobject.Money{Amount: balance}),
		})
	}
	if req.PayoutAccountID == "" {
		fields = append(fields, apperror.FieldError{Field: "payoutAccountId", Message: "выберите счёт для вывода"})
	}

	if len(fields) > 0 {
		return apperror.Validation(fields...)
	}
	return nil
}

// ReportStatus проверяет переход жалобы, если текущий статус известен.
func ReportStatus(current valueobject.ReportStatus, req dto.UpdateReportStatusRequest) error {
	if err := Struct(req); err != nil {
		return err
	}
	if current != "" && !current.CanTransitionTo(valueobject.ReportStatus(req.Status)) {
		return apperror.Validation(apperror.FieldError{
			Field:   "status",
			Message: "жалоба уже закрыта",
		})
	}
	return nil
}
