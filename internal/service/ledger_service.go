package service

import (
	"context"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/models"
	"github.com/bankbroker/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// LedgerService is the single path through which an account balance may
// change. Every successful mutation commits together with the transaction
// record describing it, so the balance always equals the opening balance plus
// the sum of recorded deltas.
type LedgerService interface {
	ApplyDelta(ctx context.Context, accountID string, delta decimal.Decimal, description string, actorID int64) (*models.Account, *models.Transaction, error)
	ReconcileTo(ctx context.Context, accountID string, target decimal.Decimal, reason string, adminID int64) (*models.Account, error)
}

type ledgerService struct {
	repo repository.AccountRepository
}

func NewLedgerService(repo repository.AccountRepository) LedgerService {
	return &ledgerService{repo: repo}
}

// ApplyDelta credits the account when delta is positive and debits it when
// negative. A debit that would drive the balance negative fails with
// ErrInsufficientFunds and leaves no trace.
func (s *ledgerService) ApplyDelta(ctx context.Context, accountID string, delta decimal.Decimal, description string, actorID int64) (*models.Account, *models.Transaction, error) {
	if delta.IsZero() {
		return nil, nil, apperrors.ErrInvalidAmount
	}
	return s.repo.ApplyDelta(ctx, accountID, delta, description, actorID)
}

// ReconcileTo forces the balance to an admin-supplied target. The target is
// accepted as provided, negative values included; the admin action record
// keeps the old and new balance for the audit trail. A target equal to the
// current balance creates no transaction but is still logged.
func (s *ledgerService) ReconcileTo(ctx context.Context, accountID string, target decimal.Decimal, reason string, adminID int64) (*models.Account, error) {
	if reason == "" {
		reason = "Balance update"
	}
	return s.repo.ReconcileBalance(ctx, accountID, target, reason, adminID)
}
