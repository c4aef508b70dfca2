package service

import (
	"context"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/models"
	"github.com/bankbroker/backend/internal/repository"
	"github.com/shopspring/decimal"
)

type CreateWithdrawalInput struct {
	AccountID     string
	Amount        decimal.Decimal
	BankName      string
	AccountNumber string
	AccountName   string
}

type WithdrawalService interface {
	Create(ctx context.Context, userID int64, input CreateWithdrawalInput) (*models.WithdrawalRequest, error)
	Process(ctx context.Context, adminID int64, withdrawalID string, status models.WithdrawalStatus, reason string) (*models.WithdrawalRequest, error)
	ListForUser(ctx context.Context, userID int64) ([]models.WithdrawalRequest, error)
	ListAll(ctx context.Context) ([]models.WithdrawalRequest, error)
}

type withdrawalService struct {
	withdrawals repository.WithdrawalRepository
	accounts    repository.AccountRepository
}

func NewWithdrawalService(withdrawals repository.WithdrawalRepository, accounts repository.AccountRepository) WithdrawalService {
	return &withdrawalService{withdrawals: withdrawals, accounts: accounts}
}

// Create registers a PENDING withdrawal request. The balance check here is
// advisory only: other transactions may drain the account before an admin
// completes the request, so the authoritative check happens again at
// completion time.
func (s *withdrawalService) Create(ctx context.Context, userID int64, input CreateWithdrawalInput) (*models.WithdrawalRequest, error) {
	if input.AccountID == "" || input.BankName == "" || input.AccountNumber == "" || input.AccountName == "" {
		return nil, apperrors.ErrInvalidRequest
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	account, err := s.accounts.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.ErrAccountNotFound
	}

	if account.Balance.LessThan(input.Amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	withdrawal := &models.WithdrawalRequest{
		UserID:        userID,
		AccountID:     input.AccountID,
		Amount:        input.Amount,
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		AccountName:   input.AccountName,
	}
	if err := s.withdrawals.Create(ctx, withdrawal); err != nil {
		return nil, err
	}
	return withdrawal, nil
}

// Process moves a request along the state machine
// PENDING -> {APPROVED, REJECTED} -> COMPLETED. Rejection requires a reason;
// completion debits the account and fails with ErrInsufficientFunds, leaving
// the request unchanged, when funds have drifted below the requested amount.
func (s *withdrawalService) Process(ctx context.Context, adminID int64, withdrawalID string, status models.WithdrawalStatus, reason string) (*models.WithdrawalRequest, error) {
	if withdrawalID == "" || !status.Valid() {
		return nil, apperrors.ErrInvalidRequest
	}
	if status == models.WithdrawalStatusRejected && reason == "" {
		return nil, apperrors.ErrReasonRequired
	}
	return s.withdrawals.Process(ctx, withdrawalID, status, reason, adminID)
}

func (s *withdrawalService) ListForUser(ctx context.Context, userID int64) ([]models.WithdrawalRequest, error) {
	return s.withdrawals.ListByUser(ctx, userID)
}

func (s *withdrawalService) ListAll(ctx context.Context) ([]models.WithdrawalRequest, error) {
	return s.withdrawals.ListAll(ctx)
}
