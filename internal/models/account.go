package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountTypeChecking = "CHECKING"
	AccountTypeSavings  = "SAVINGS"
)

type Account struct {
	ID        string          `json:"id" db:"id"`
	UserID    int64           `json:"user_id" db:"user_id"`
	Type      string          `json:"type" db:"type"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

func IsValidAccountType(t string) bool {
	return t == AccountTypeChecking || t == AccountTypeSavings
}
