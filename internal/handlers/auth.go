package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/logger"
	"github.com/bankbroker/backend/internal/models"
	"github.com/bankbroker/backend/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type registerRequest struct {
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	Password        string          `json:"password"`
	Phone           string          `json:"phone"`
	InitialChecking decimal.Decimal `json:"initial_checking_amount"`
	InitialSavings  decimal.Decimal `json:"initial_savings_amount"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Email:           req.Email,
		Name:            req.Name,
		Password:        req.Password,
		Phone:           req.Phone,
		InitialChecking: req.InitialChecking,
		InitialSavings:  req.InitialSavings,
	})
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		http.Error(w, "user already exists", http.StatusConflict)
		return
	case errors.Is(err, apperrors.ErrInvalidRequest),
		errors.Is(err, apperrors.ErrWeakPassword),
		errors.Is(err, apperrors.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("register failed", zap.Error(err))
		return
	}

	h.writeToken(w, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	h.writeToken(w, user)
}

func (h *Handler) writeToken(w http.ResponseWriter, user *models.User) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(h.secretKey))
	if err != nil {
		http.Error(w, "could not create token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+tokenString)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(authResponse{Token: tokenString, User: user})
}
