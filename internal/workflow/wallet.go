package workflow

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/repository"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/validation"
)

// WalletSnapshot баланс и счета на момент открытия формы вывода.
type WalletSnapshot struct {
	Balance  decimal.Decimal
	Accounts []entity.PayoutAccount
}

func (s WalletSnapshot) account(id string) *entity.PayoutAccount {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

type Wallet struct {
	repo repository.WalletRepository
}

func NewWallet(repo repository.WalletRepository) *Wallet {
	return &Wallet{repo: repo}
}

func (w *Wallet) Snapshot(ctx context.Context) (WalletSnapshot, error) {
	balance, err := w.repo.Balance(ctx)
	if err != nil {
		return WalletSnapshot{}, err
	}
	accounts, err := w.repo.PayoutAccounts(ctx)
	if err != nil {
		return WalletSnapshot{}, err
	}
	return WalletSnapshot{Balance: balance, Accounts: accounts}, nil
}

func (w *Wallet) AddAccount(ctx context.Context, req dto.PayoutAccountRequest) (*entity.PayoutAccount, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return w.repo.CreatePayoutAccount(ctx, req)
}

func (w *Wallet) Payouts(ctx context.Context) ([]entity.PayoutRequest, error) {
	return w.repo.PayoutRequests(ctx)
}

// RequestPayout отклоняет заявку локально, если сумма меньше минимума, больше баланса
// или счёт не выбран из сохранённых.
func (w *Wallet) RequestPayout(ctx context.Context, snapshot WalletSnapshot, req dto.PayoutRequest) (*entity.PayoutRequest, error) {
	if err := validation.Payout(req, snapshot.Balance); err != nil {
		return nil, err
	}
	if snapshot.account(req.PayoutAccountID) == nil {
		return nil, apperror.Validation(apperror.FieldError{Field: "payoutAccountId", Message: "счёт не найден"})
	}
	return w.repo.RequestPayout(ctx, req)
}
