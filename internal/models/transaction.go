package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit    = "DEPOSIT"
	TransactionTypeWithdrawal = "WITHDRAWAL"
)

// Transaction is an append-only record of one balance mutation. Amount is
// always a non-negative magnitude; direction is carried by Type.
type Transaction struct {
	ID          string          `json:"id" db:"id"`
	UserID      int64           `json:"user_id" db:"user_id"`
	AccountID   string          `json:"account_id" db:"account_id"`
	Type        string          `json:"type" db:"type"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// SignedAmount returns the delta this transaction applied to its account.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
