package repository

import (
	"context"
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
	selectWithdrawalForUpdate = `SELECT id, user_id, account_id, amount, bank_name, account_number, account_name, status, reason, created_at FROM withdrawal_requests WHERE id = $1 FOR UPDATE`
	updateWithdrawalStatus = `UPDATE withdrawal_requests SET status = $1, reason = $2 WHERE id = $3`
	debitAccountBalance    = `UPDATE accounts SET balance = balance - $1 WHERE id = $2`
)

func withdrawalRow(status models.WithdrawalStatus, amount string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "account_id", "amount", "bank_name",
		"account_number", "account_name", "status", "reason", "created_at",
	}).AddRow("w-1", int64(1), "acc-1", amount, "First National",
		"0123456789", "Jane Doe", string(status), "", time.Now())
}

func TestWithdrawalRepo_Process_Approve(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectWithdrawalForUpdate)).
		WithArgs("w-1").
		WillReturnRows(withdrawalRow(models.WithdrawalStatusPending, "500.00"))
	mock.ExpectExec(regexp.QuoteMeta(updateWithdrawalStatus)).
		WithArgs(models.WithdrawalStatusApproved, "", "w-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertAdminAction)).
		WithArgs(sqlmock.AnyArg(), int64(9), models.AdminActionProcessWithdrawal, int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := NewWithdrawalRepository(db)
	w, err := r.Process(context.Background(), "w-1", models.WithdrawalStatusApproved, "", 9)

	assert.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, w.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_Process_CompleteDebitsAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectWithdrawalForUpdate)).
		WithArgs("w-1").
		WillReturnRows(withdrawalRow(models.WithdrawalStatusApproved, "500.00"))
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("acc-1").
		WillReturnRows(accountRow("1500.00"))
	mock.ExpectExec(regexp.QuoteMeta(debitAccountBalance)).
		WithArgs(decimal.RequireFromString("500.00"), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertTransaction)).
		WithArgs(sqlmock.AnyArg(), int64(1), "acc-1", models.TransactionTypeWithdrawal,
			decimal.RequireFromString("500.00"), "Bank withdrawal to First National - 0123456789").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(updateWithdrawalStatus)).
		WithArgs(models.WithdrawalStatusCompleted, "", "w-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertAdminAction)).
		WithArgs(sqlmock.AnyArg(), int64(9), models.AdminActionProcessWithdrawal, int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := NewWithdrawalRepository(db)
	w, err := r.Process(context.Background(), "w-1", models.WithdrawalStatusCompleted, "", 9)

	assert.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCompleted, w.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_Process_CompleteInsufficientFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectWithdrawalForUpdate)).
		WithArgs("w-1").
		WillReturnRows(withdrawalRow(models.WithdrawalStatusPending, "500.00"))
	mock.ExpectQuery(regexp.QuoteMeta(selectAccountForUpdate)).
		WithArgs("acc-1").
		WillReturnRows(accountRow("300.00"))
	mock.ExpectRollback()

	r := NewWithdrawalRepository(db)
	w, err := r.Process(context.Background(), "w-1", models.WithdrawalStatusCompleted, "", 9)

	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Nil(t, w)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_Process_TerminalStateRejectsTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectWithdrawalForUpdate)).
		WithArgs("w-1").
		WillReturnRows(withdrawalRow(models.WithdrawalStatusRejected, "500.00"))
	mock.ExpectRollback()

	r := NewWithdrawalRepository(db)
	w, err := r.Process(context.Background(), "w-1", models.WithdrawalStatusCompleted, "", 9)

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Nil(t, w)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_Process_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectWithdrawalForUpdate)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "account_id", "amount", "bank_name",
			"account_number", "account_name", "status", "reason", "created_at",
		}))
	mock.ExpectRollback()

	r := NewWithdrawalRepository(db)
	_, err = r.Process(context.Background(), "missing", models.WithdrawalStatusApproved, "", 9)

	assert.ErrorIs(t, err, apperrors.ErrWithdrawalNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO withdrawal_requests`)).
		WithArgs(sqlmock.AnyArg(), int64(1), "acc-1", decimal.RequireFromString("500.00"),
			"First National", "0123456789", "Jane Doe", models.WithdrawalStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	r := NewWithdrawalRepository(db)
	w := &models.WithdrawalRequest{
		UserID:        1,
		AccountID:     "acc-1",
		Amount:        decimal.RequireFromString("500.00"),
		BankName:      "First National",
		AccountNumber: "0123456789",
		AccountName:   "Jane Doe",
	}
	err = r.Create(context.Background(), w)

	assert.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, models.WithdrawalStatusPending, w.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
