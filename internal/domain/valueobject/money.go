package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

// MinPayoutAmount минимальная сумма вывода средств, IDR.
var MinPayoutAmount = decimal.NewFromInt(50000)

// Money сумма в рупиях. Дробные значения допускаются, backend хранит decimal.
type Money struct {
	Amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	return Money{Amount: amount}, nil
}

// ParseMoney разбирает сумму из строки ("150000", "150.000", "150000.50").
func ParseMoney(raw string) (Money, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "Rp")
	cleaned = strings.TrimSpace(cleaned)
	if strings.Count(cleaned, ".") > 1 || (strings.Contains(cleaned, ".") && len(cleaned)-strings.LastIndex(cleaned, ".") == 4) {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "некорректная сумма")
	}
	return NewMoney(amount)
}

// String форматирует сумму как "Rp 1.500.000".
func (m Money) String() string {
	whole := m.Amount.Truncate(0).Abs().String()
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if m.Amount.IsNegative() {
		sign = "-"
	}
	return "Rp " + sign + b.String()
}
