package models

import (
	"encoding/json"
	"time"
)

const (
	AdminActionUpdateBalance     = "UPDATE_BALANCE"
	AdminActionProcessWithdrawal = "PROCESS_WITHDRAWAL"
)

// AdminAction is an append-only audit record of an administrator-initiated
// mutation. It is written in the same atomic unit as the mutation itself and
// is never read back by the core.
type AdminAction struct {
	ID           string          `json:"id" db:"id"`
	AdminID      int64           `json:"admin_id" db:"admin_id"`
	Action       string          `json:"action" db:"action"`
	TargetUserID int64           `json:"target_user_id" db:"target_user_id"`
	Details      json.RawMessage `json:"details" db:"details"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
