package repository

import (
	"context"
	"database/sql"

	"github.com/bankbroker/backend/internal/models"
)

type TransactionRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}

type transactionRepo struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, account_id, type, amount, description, created_at
		FROM transactions WHERE user_id = $1 ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *transactionRepo) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, account_id, type, amount, description, created_at
		FROM transactions WHERE account_id = $1 ORDER BY created_at DESC
	`
	return r.list(ctx, query, accountID)
}

func (r *transactionRepo) list(ctx context.Context, query string, args ...interface{}) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Type, &t.Amount,
			&t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
