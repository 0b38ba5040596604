package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"foodgiver/internal/repository"
)

// Ledger кредитный баланс пользователя, хранится под ключом credits_<userId>.
// Зеркальное поле User.Credits синхронизирует вызывающий код.
type Ledger struct {
	state *repository.State
	log   *slog.Logger
}

func NewLedger(state *repository.State, log *slog.Logger) *Ledger {
	return &Ledger{state: state, log: log}
}

// Balance falls back to the user's mirrored credits when the ledger key is absent or malformed.
func (l *Ledger) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	bal, ok, err := l.state.Credits(ctx, userID)
	if err != nil || ok {
		return bal, err
	}
	u, err := l.state.User(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return u.Credits, nil
}

// Debit списывает amount; при нехватке средств ничего не меняет
func (l *Ledger) Debit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative debit", ErrInvalidInput)
	}
	var newBalance decimal.Decimal
	err := l.state.WithTransaction(ctx, func(ctx context.Context) error {
		bal, err := l.Balance(ctx, userID)
		if err != nil {
			return err
		}
		if bal.LessThan(amount) {
			return ErrInsufficientCredits
		}
		newBalance = bal.Sub(amount)
		return l.state.SetCredits(ctx, userID, newBalance)
	})
	if err != nil {
		return decimal.Zero, err
	}
	l.log.Debug("credits debited", "user_id", userID, "amount", amount.String(), "balance", newBalance.String())
	return newBalance, nil
}

func (l *Ledger) Credit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative credit", ErrInvalidInput)
	}
	var newBalance decimal.Decimal
	err := l.state.WithTransaction(ctx, func(ctx context.Context) error {
		bal, err := l.Balance(ctx, userID)
		if err != nil {
			return err
		}
		newBalance = bal.Add(amount)
		return l.state.SetCredits(ctx, userID, newBalance)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}
