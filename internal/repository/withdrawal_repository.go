package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/models"
	"github.com/google/uuid"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.WithdrawalRequest) error
	GetByID(ctx context.Context, withdrawalID string) (*models.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]models.WithdrawalRequest, error)
	ListAll(ctx context.Context) ([]models.WithdrawalRequest, error)
	Process(ctx context.Context, withdrawalID string, next models.WithdrawalStatus, reason string, adminID int64) (*models.WithdrawalRequest, error)
}

type withdrawalRepo struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) WithdrawalRepository {
	return &withdrawalRepo{db: db}
}

func (r *withdrawalRepo) Create(ctx context.Context, withdrawal *models.WithdrawalRequest) error {
	withdrawal.ID = uuid.NewString()
	withdrawal.Status = models.WithdrawalStatusPending

	return r.db.QueryRowContext(ctx, `
		INSERT INTO withdrawal_requests (id, user_id, account_id, amount, bank_name, account_number, account_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, withdrawal.ID, withdrawal.UserID, withdrawal.AccountID, withdrawal.Amount,
		withdrawal.BankName, withdrawal.AccountNumber, withdrawal.AccountName,
		withdrawal.Status).Scan(&withdrawal.CreatedAt)
}

func (r *withdrawalRepo) GetByID(ctx context.Context, withdrawalID string) (*models.WithdrawalRequest, error) {
	query := `
		SELECT id, user_id, account_id, amount, bank_name, account_number, account_name, status, reason, created_at
		FROM withdrawal_requests WHERE id = $1
	`
	var w models.WithdrawalRequest
	err := r.db.QueryRowContext(ctx, query, withdrawalID).Scan(
		&w.ID, &w.UserID, &w.AccountID, &w.Amount, &w.BankName,
		&w.AccountNumber, &w.AccountName, &w.Status, &w.Reason, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *withdrawalRepo) ListByUser(ctx context.Context, userID int64) ([]models.WithdrawalRequest, error) {
	query := `
		SELECT id, user_id, account_id, amount, bank_name, account_number, account_name, status, reason, created_at
		FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *withdrawalRepo) ListAll(ctx context.Context) ([]models.WithdrawalRequest, error) {
	query := `
		SELECT id, user_id, account_id, amount, bank_name, account_number, account_name, status, reason, created_at
		FROM withdrawal_requests ORDER BY created_at DESC
	`
	return r.list(ctx, query)
}

func (r *withdrawalRepo) list(ctx context.Context, query string, args ...interface{}) ([]models.WithdrawalRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var withdrawals []models.WithdrawalRequest
	for rows.Next() {
		var w models.WithdrawalRequest
		if err := rows.Scan(&w.ID, &w.UserID, &w.AccountID, &w.Amount, &w.BankName,
			&w.AccountNumber, &w.AccountName, &w.Status, &w.Reason, &w.CreatedAt); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// Process drives one state machine transition. The request row is locked
// first so the transition is validated against the state actually stored, not
// the state an admin last saw. Completing a request additionally locks the
// account row, re-checks funds, debits the balance and appends the matching
// transaction record. Everything, including the audit record, commits as one
// unit; on any failure the request is left untouched.
func (r *withdrawalRepo) Process(ctx context.Context, withdrawalID string, next models.WithdrawalStatus, reason string, adminID int64) (*models.WithdrawalRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer rollbackOnErr(tx, &err)

	var w models.WithdrawalRequest
	err = tx.QueryRowContext(ctx, `
		SELECT id, user_id, account_id, amount, bank_name, account_number, account_name, status, reason, created_at
		FROM withdrawal_requests WHERE id = $1 FOR UPDATE
	`, withdrawalID).Scan(&w.ID, &w.UserID, &w.AccountID, &w.Amount, &w.BankName,
		&w.AccountNumber, &w.AccountName, &w.Status, &w.Reason, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperrors.ErrWithdrawalNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if !w.Status.CanTransitionTo(next) {
		err = apperrors.ErrInvalidTransition
		return nil, err
	}

	if next == models.WithdrawalStatusCompleted {
		acc, lockErr := lockAccount(ctx, tx, w.AccountID)
		if lockErr != nil {
			err = lockErr
			return nil, err
		}

		if acc.Balance.LessThan(w.Amount) {
			err = apperrors.ErrInsufficientFunds
			return nil, err
		}

		if _, err = tx.ExecContext(ctx,
			`UPDATE accounts SET balance = balance - $1 WHERE id = $2`,
			w.Amount, w.AccountID); err != nil {
			return nil, err
		}

		description := fmt.Sprintf("Bank withdrawal to %s - %s", w.BankName, w.AccountNumber)
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (id, user_id, account_id, type, amount, description)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), w.UserID, w.AccountID, models.TransactionTypeWithdrawal,
			w.Amount, description); err != nil {
			return nil, err
		}
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE withdrawal_requests SET status = $1, reason = $2 WHERE id = $3`,
		next, reason, withdrawalID); err != nil {
		return nil, err
	}

	details, err := json.Marshal(map[string]interface{}{
		"withdrawalId": withdrawalID,
		"status":       next,
		"reason":       reason,
		"amount":       w.Amount,
	})
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO admin_actions (id, admin_id, action, target_user_id, details)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), adminID, models.AdminActionProcessWithdrawal, w.UserID, details); err != nil {
		return nil, err
	}

	if err = commit(tx); err != nil {
		return nil, err
	}

	w.Status = next
	w.Reason = reason
	return &w, nil
}
