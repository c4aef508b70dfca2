package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/logger"
	"github.com/bankbroker/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	GetByID(ctx context.Context, accountID string) (*models.Account, error)
	GetByUserAndType(ctx context.Context, userID int64, accountType string) (*models.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Account, error)
	ApplyDelta(ctx context.Context, accountID string, delta decimal.Decimal, description string, actorID int64) (*models.Account, *models.Transaction, error)
	ReconcileBalance(ctx context.Context, accountID string, target decimal.Decimal, reason string, adminID int64) (*models.Account, error)
}

type accountRepo struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) GetByID(ctx context.Context, accountID string) (*models.Account, error) {
	query := `SELECT id, user_id, type, balance, created_at FROM accounts WHERE id = $1`
	var acc models.Account
	err := r.db.QueryRowContext(ctx, query, accountID).
		Scan(&acc.ID, &acc.UserID, &acc.Type, &acc.Balance, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepo) GetByUserAndType(ctx context.Context, userID int64, accountType string) (*models.Account, error) {
	query := `SELECT id, user_id, type, balance, created_at FROM accounts WHERE user_id = $1 AND type = $2`
	var acc models.Account
	err := r.db.QueryRowContext(ctx, query, userID, accountType).
		Scan(&acc.ID, &acc.UserID, &acc.Type, &acc.Balance, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepo) ListByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	query := `SELECT id, user_id, type, balance, created_at FROM accounts WHERE user_id = $1 ORDER BY type`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var accounts []models.Account
	for rows.Next() {
		var acc models.Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.Type, &acc.Balance, &acc.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// ApplyDelta mutates the account balance and appends the matching transaction
// record in one database transaction. The account row is locked for the
// duration so concurrent deltas against the same account serialize.
func (r *accountRepo) ApplyDelta(ctx context.Context, accountID string, delta decimal.Decimal, description string, actorID int64) (*models.Account, *models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer rollbackOnErr(tx, &err)

	acc, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return nil, nil, err
	}

	newBalance := acc.Balance.Add(delta)
	if delta.IsNegative() && newBalance.IsNegative() {
		err = apperrors.ErrInsufficientFunds
		return nil, nil, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1 WHERE id = $2`, newBalance, accountID); err != nil {
		return nil, nil, err
	}

	txn := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      acc.UserID,
		AccountID:   accountID,
		Type:        models.TransactionTypeDeposit,
		Amount:      delta.Abs(),
		Description: description,
	}
	if delta.IsNegative() {
		txn.Type = models.TransactionTypeWithdrawal
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO transactions (id, user_id, account_id, type, amount, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, txn.ID, txn.UserID, txn.AccountID, txn.Type, txn.Amount, txn.Description).Scan(&txn.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	if err = commit(tx); err != nil {
		return nil, nil, err
	}

	acc.Balance = newBalance
	return acc, txn, nil
}

// ReconcileBalance forces the account balance to target. The matching
// transaction carries the signed difference; a zero difference creates no
// transaction. The admin action is logged either way, all in one database
// transaction.
func (r *accountRepo) ReconcileBalance(ctx context.Context, accountID string, target decimal.Decimal, reason string, adminID int64) (*models.Account, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer rollbackOnErr(tx, &err)

	acc, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	oldBalance := acc.Balance
	difference := target.Sub(oldBalance)

	if !difference.IsZero() {
		if _, err = tx.ExecContext(ctx,
			`UPDATE accounts SET balance = $1 WHERE id = $2`, target, accountID); err != nil {
			return nil, err
		}

		txnType := models.TransactionTypeDeposit
		if difference.IsNegative() {
			txnType = models.TransactionTypeWithdrawal
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (id, user_id, account_id, type, amount, description)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), acc.UserID, accountID, txnType, difference.Abs(),
			"Admin adjustment: "+reason); err != nil {
			return nil, err
		}
	}

	details, err := json.Marshal(map[string]interface{}{
		"accountId":  accountID,
		"oldBalance": oldBalance,
		"newBalance": target,
		"difference": difference,
		"reason":     reason,
	})
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO admin_actions (id, admin_id, action, target_user_id, details)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), adminID, models.AdminActionUpdateBalance, acc.UserID, details); err != nil {
		return nil, err
	}

	if err = commit(tx); err != nil {
		return nil, err
	}

	acc.Balance = target
	return acc, nil
}

func lockAccount(ctx context.Context, tx *sql.Tx, accountID string) (*models.Account, error) {
	var acc models.Account
	err := tx.QueryRowContext(ctx,
		`SELECT id, user_id, type, balance, created_at FROM accounts WHERE id = $1 FOR UPDATE`,
		accountID).Scan(&acc.ID, &acc.UserID, &acc.Type, &acc.Balance, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// commit wraps commit failures so callers can tell an unknown outcome apart
// from a confirmed failure.
func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

func rollbackOnErr(tx *sql.Tx, err *error) {
	if *err == nil {
		return
	}
	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		logger.Log.Error("rollback error")
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Log.Error("failed to close rows")
	}
}
