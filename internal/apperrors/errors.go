package apperrors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAuthHeader  = errors.New("invalid or missing Authorization header")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrWeakPassword      = errors.New("password must be at least 8 characters long")

	ErrWithdrawalNotFound = errors.New("withdrawal request not found")
	ErrInvalidTransition  = errors.New("invalid withdrawal status transition")
	ErrReasonRequired     = errors.New("rejection reason required")

	// ErrStorageUnavailable marks mutations whose commit outcome is unknown.
	// Callers must not conflate it with a confirmed failure: re-query state
	// before retrying.
	ErrStorageUnavailable = errors.New("storage unavailable: commit outcome unknown")
)
