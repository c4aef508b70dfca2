package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved  WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected  WithdrawalStatus = "REJECTED"
	WithdrawalStatusCompleted WithdrawalStatus = "COMPLETED"
)

// CanTransitionTo reports whether the status may move to next. REJECTED and
// COMPLETED are terminal.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	switch s {
	case WithdrawalStatusPending:
		return next == WithdrawalStatusApproved ||
			next == WithdrawalStatusRejected ||
			next == WithdrawalStatusCompleted
	case WithdrawalStatusApproved:
		return next == WithdrawalStatusCompleted
	default:
		return false
	}
}

func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusApproved,
		WithdrawalStatusRejected, WithdrawalStatusCompleted:
		return true
	}
	return false
}

// WithdrawalRequest is a user-initiated, admin-adjudicated request to move
// funds out of an account to an external bank. Amount is fixed at creation.
type WithdrawalRequest struct {
	ID            string           `json:"id" db:"id"`
	UserID        int64            `json:"user_id" db:"user_id"`
	AccountID     string           `json:"account_id" db:"account_id"`
	Amount        decimal.Decimal  `json:"amount" db:"amount"`
	BankName      string           `json:"bank_name" db:"bank_name"`
	AccountNumber string           `json:"account_number" db:"account_number"`
	AccountName   string           `json:"account_name" db:"account_name"`
	Status        WithdrawalStatus `json:"status" db:"status"`
	Reason        string           `json:"reason,omitempty" db:"reason"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}
