package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/logger"
	"github.com/bankbroker/backend/internal/middleware"
	"github.com/bankbroker/backend/internal/models"
	"github.com/bankbroker/backend/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type createWithdrawalRequest struct {
	AccountID     string          `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	BankName      string          `json:"bank_name"`
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
}

type withdrawalResponse struct {
	Message    string                    `json:"message"`
	Withdrawal *models.WithdrawalRequest `json:"withdrawal"`
}

func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	withdrawal, err := h.withdrawalService.Create(r.Context(), userID, service.CreateWithdrawalInput{
		AccountID:     req.AccountID,
		Amount:        req.Amount,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrInvalidRequest):
		http.Error(w, "all fields are required", http.StatusBadRequest)
		return
	case errors.Is(err, apperrors.ErrInvalidAmount):
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	case errors.Is(err, apperrors.ErrAccountNotFound):
		http.Error(w, "account not found", http.StatusNotFound)
		return
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
		return
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("create withdrawal failed", zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(withdrawalResponse{
		Message:    "Withdrawal request submitted successfully",
		Withdrawal: withdrawal,
	})
}

func (h *Handler) GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	withdrawals, err := h.withdrawalService.ListForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("failed to get withdrawals", zap.Error(err))
		return
	}

	if len(withdrawals) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(withdrawals); err != nil {
		logger.Log.Error("failed to encode withdrawals json", zap.Error(err))
	}
}
