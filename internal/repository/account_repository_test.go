package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectAccountForUpdate = `SELECT id, user_id, type, balance, created_at FROM accounts WHERE id = $1 FOR UPDATE`
	updateAccountBalance   = `UPDATE accounts SET balance = $1 WHERE id = $2`
	insertTransaction      = `INSERT INTO transactions (id, user_id, account_id, type, amount, description)`
	insertAdminAction      = `INSERT INTO admin_actions (id, admin_id, action, target_user_id, details)`
)

func accountRow(balance string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "type", "balance", "created_at"}).
		AddRow("acc-1", int64(1), models.AccountTypeChecking, balance, time.Now())
}

func TestAccountRepo_ApplyDelta_Deposit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("acc-1").
		WillReturnRows(accountRow("1500.00"))
	mock.ExpectExec(regexp.QuoteMeta(updateAccountBalance)).
		WithArgs(decimal.RequireFromString("1750.00"), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(insertTransaction)).
		WithArgs(sqlmock.AnyArg(), int64(1), "acc-1", models.TransactionTypeDeposit,
			decimal.RequireFromString("250.00"), "Mobile Check Deposit").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	r := NewAccountRepository(db)
	account, txn, err := r.ApplyDelta(context.Background(), "acc-1",
		decimal.RequireFromString("250.00"), "Mobile Check Deposit", 1)

	assert.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1750.00").Equal(account.Balance))
	assert.Equal(t, models.TransactionTypeDeposit, txn.Type)
	assert.True(t, decimal.RequireFromString("250.00").Equal(txn.Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ApplyDelta_DebitWritesWithdrawal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("acc-1").
		WillReturnRows(accountRow("1750.00"))
	mock.ExpectExec(regexp.QuoteMeta(updateAccountBalance)).
		WithArgs(decimal.RequireFromString("1550.00"), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(insertTransaction)).
		WithArgs(sqlmock.AnyArg(), int64(1), "acc-1", models.TransactionTypeWithdrawal,
			decimal.RequireFromString("200.00"), "withdrawal transaction").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	r := NewAccountRepository(db)
	account, txn, err := r.ApplyDelta(context.Background(), "acc-1",
		decimal.RequireFromString("-200.00"), "withdrawal transaction", 1)

	assert.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1550.00").Equal(account.Balance))
	assert.Equal(t, models.TransactionTypeWithdrawal, txn.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ApplyDelta_InsufficientFundsRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("acc-1").
		WillReturnRows(accountRow("1750.00"))
	mock.ExpectRollback()

	r := NewAccountRepository(db)
	account, txn, err := r.ApplyDelta(context.Background(), "acc-1",
		decimal.RequireFromString("-2000.00"), "withdrawal transaction", 1)

	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Nil(t, account)
	assert.Nil(t, txn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ApplyDelta_AccountNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "balance", "created_at"}))
	mock.ExpectRollback()

	r := NewAccountRepository(db)
	_, _, err = r.ApplyDelta(context.Background(), "missing",
		decimal.RequireFromString("10.00"), "deposit transaction", 1)

	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ApplyDelta_CommitFailureIsUnknownOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("acc-1").
		WillReturnRows(accountRow("100.00"))
	mock.ExpectExec(regexp.QuoteMeta(updateAccountBalance)).
		WithArgs(decimal.RequireFromString("150.00"), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(insertTransaction)).
		WithArgs(sqlmock.AnyArg(), int64(1), "acc-1", models.TransactionTypeDeposit,
			decimal.RequireFromString("50.00"), "deposit transaction").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	r := NewAccountRepository(db)
	_, _, err = r.ApplyDelta(context.Background(), "acc-1",
		decimal.RequireFromString("50.00"), "deposit transaction", 1)

	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestAccountRepo_ReconcileBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("acc-1").
		WillReturnRows(accountRow("1750.00"))
	mock.ExpectExec(regexp.QuoteMeta(updateAccountBalance)).
		WithArgs(decimal.RequireFromString("1000.00"), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertTransaction)).
		WithArgs(sqlmock.AnyArg(), int64(1), "acc-1", models.TransactionTypeWithdrawal,
			decimal.RequireFromString("750.00"), "Admin adjustment: correction").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertAdminAction)).
		WithArgs(sqlmock.AnyArg(), int64(9), models.AdminActionUpdateBalance, int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := NewAccountRepository(db)
	account, err := r.ReconcileBalance(context.Background(), "acc-1",
		decimal.RequireFromString("1000.00"), "correction", 9)

	assert.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1000.00").Equal(account.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ReconcileBalance_NoOpCreatesNoTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("acc-1").
		WillReturnRows(accountRow("1000.00"))
	mock.ExpectExec(regexp.QuoteMeta(insertAdminAction)).
		WithArgs(sqlmock.AnyArg(), int64(9), models.AdminActionUpdateBalance, int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := NewAccountRepository(db)
	account, err := r.ReconcileBalance(context.Background(), "acc-1",
		decimal.RequireFromString("1000.00"), "audit pass", 9)

	assert.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1000.00").Equal(account.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ReconcileBalance_NegativeTargetAccepted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("acc-1").
		WillReturnRows(accountRow("100.00"))
	mock.ExpectExec(regexp.QuoteMeta(updateAccountBalance)).
		WithArgs(decimal.RequireFromString("-50.00"), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertTransaction)).
		WithArgs(sqlmock.AnyArg(), int64(1), "acc-1", models.TransactionTypeWithdrawal,
			decimal.RequireFromString("150.00"), "Admin adjustment: chargeback").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertAdminAction)).
		WithArgs(sqlmock.AnyArg(), int64(9), models.AdminActionUpdateBalance, int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := NewAccountRepository(db)
	account, err := r.ReconcileBalance(context.Background(), "acc-1",
		decimal.RequireFromString("-50.00"), "chargeback", 9)

	assert.NoError(t, err)
	assert.True(t, account.Balance.IsNegative())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByUserAndType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	query := `SELECT id, user_id, type, balance, created_at FROM accounts WHERE user_id = $1 AND type = $2`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(1), models.AccountTypeChecking).
		WillReturnRows(accountRow("1500.00"))

	r := NewAccountRepository(db)
	account, err := r.GetByUserAndType(context.Background(), 1, models.AccountTypeChecking)

	assert.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
	assert.True(t, decimal.RequireFromString("1500.00").Equal(account.Balance))
}
