package service

import (
	"context"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/models"
	"github.com/bankbroker/backend/internal/repository"
)

// AccountService serves the read side of the dashboard: accounts and
// transaction history. All mutations go through LedgerService.
type AccountService interface {
	GetUserAccountByType(ctx context.Context, userID int64, accountType string) (*models.Account, error)
	ListUserAccounts(ctx context.Context, userID int64) ([]models.Account, error)
	ListUserTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	ListAccountTransactions(ctx context.Context, userID int64, accountID string) ([]models.Transaction, error)
}

type accountService struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
}

func NewAccountService(accounts repository.AccountRepository, transactions repository.TransactionRepository) AccountService {
	return &accountService{accounts: accounts, transactions: transactions}
}

func (s *accountService) GetUserAccountByType(ctx context.Context, userID int64, accountType string) (*models.Account, error) {
	if !models.IsValidAccountType(accountType) {
		return nil, apperrors.ErrAccountNotFound
	}
	return s.accounts.GetByUserAndType(ctx, userID, accountType)
}

func (s *accountService) ListUserAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	return s.accounts.ListByUser(ctx, userID)
}

func (s *accountService) ListUserTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID)
}

// ListAccountTransactions returns the history of one account. Accounts owned
// by other users are indistinguishable from missing ones.
func (s *accountService) ListAccountTransactions(ctx context.Context, userID int64, accountID string) ([]models.Transaction, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.ErrAccountNotFound
	}
	return s.transactions.ListByAccount(ctx, accountID)
}
