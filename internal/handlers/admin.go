package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/logger"
	"github.com/bankbroker/backend/internal/middleware"
	"github.com/bankbroker/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type updateBalanceRequest struct {
	AccountID  string          `json:"account_id"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Reason     string          `json:"reason"`
}

type updateBalanceResponse struct {
	Message string          `json:"message"`
	Account *models.Account `json:"account"`
}

type processWithdrawalRequest struct {
	WithdrawalID string                  `json:"withdrawal_id"`
	Status       models.WithdrawalStatus `json:"status"`
	Reason       string                  `json:"reason"`
}

// UpdateAccountBalance reconciles an account to an admin-supplied target
// balance. The target is applied as given, negative values included.
func (h *Handler) UpdateAccountBalance(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req updateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	account, err := h.ledgerService.ReconcileTo(r.Context(), req.AccountID, req.NewBalance, req.Reason, adminID)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrAccountNotFound):
		http.Error(w, "account not found", http.StatusNotFound)
		return
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("balance reconciliation failed", zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(updateBalanceResponse{
		Message: "Account balance updated successfully",
		Account: account,
	})
}

// ProcessWithdrawal drives one withdrawal request state machine transition.
func (h *Handler) ProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req processWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	withdrawal, err := h.withdrawalService.Process(r.Context(), adminID, req.WithdrawalID, req.Status, req.Reason)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrInvalidRequest), errors.Is(err, apperrors.ErrReasonRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, apperrors.ErrWithdrawalNotFound):
		http.Error(w, "withdrawal request not found", http.StatusNotFound)
		return
	case errors.Is(err, apperrors.ErrInvalidTransition):
		http.Error(w, "invalid status transition", http.StatusConflict)
		return
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
		return
	case errors.Is(err, apperrors.ErrAccountNotFound):
		http.Error(w, "account not found", http.StatusNotFound)
		return
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("process withdrawal failed", zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(withdrawalResponse{
		Message:    "Withdrawal request processed successfully",
		Withdrawal: withdrawal,
	})
}

func (h *Handler) GetAllWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawalService.ListAll(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("failed to get withdrawals", zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(withdrawals)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListWithAccounts(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("failed to get users", zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(users)
}
