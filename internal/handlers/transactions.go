package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/logger"
	"github.com/bankbroker/backend/internal/middleware"
	"github.com/bankbroker/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type transactionRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	AccountType string          `json:"account_type"`
}

type transactionResponse struct {
	Message     string              `json:"message"`
	Transaction *models.Transaction `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"new_balance"`
}

// CreateTransaction applies a user-initiated deposit or withdrawal to the
// account of the requested type.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if req.Type != models.TransactionTypeDeposit && req.Type != models.TransactionTypeWithdrawal {
		http.Error(w, "invalid transaction type", http.StatusBadRequest)
		return
	}
	if !req.Amount.IsPositive() {
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	}
	if req.AccountType == "" {
		req.AccountType = models.AccountTypeChecking
	}

	account, err := h.accountService.GetUserAccountByType(r.Context(), userID, req.AccountType)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("failed to get account", zap.Error(err))
		return
	}

	delta := req.Amount
	if req.Type == models.TransactionTypeWithdrawal {
		delta = delta.Neg()
	}
	description := req.Description
	if description == "" {
		description = strings.ToLower(req.Type) + " transaction"
	}

	updated, txn, err := h.ledgerService.ApplyDelta(r.Context(), account.ID, delta, description, userID)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
		return
	case errors.Is(err, apperrors.ErrAccountNotFound):
		http.Error(w, "account not found", http.StatusNotFound)
		return
	case errors.Is(err, apperrors.ErrInvalidAmount):
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("transaction failed", zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(transactionResponse{
		Message:     "Transaction completed successfully",
		Transaction: txn,
		NewBalance:  updated.Balance,
	})
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var (
		transactions []models.Transaction
		err          error
	)
	if accountID := r.URL.Query().Get("account_id"); accountID != "" {
		transactions, err = h.accountService.ListAccountTransactions(r.Context(), userID, accountID)
	} else {
		transactions, err = h.accountService.ListUserTransactions(r.Context(), userID)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("failed to get transactions", zap.Error(err))
		return
	}

	if len(transactions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(transactions); err != nil {
		logger.Log.Error("failed to encode transactions json", zap.Error(err))
	}
}

func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.accountService.ListUserAccounts(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("failed to get accounts", zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(accounts)
}
