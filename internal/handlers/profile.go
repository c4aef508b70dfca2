package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/logger"
	"github.com/bankbroker/backend/internal/middleware"
	"github.com/bankbroker/backend/internal/models"
	"github.com/bankbroker/backend/internal/service"
	"go.uber.org/zap"
)

type profileRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DateOfBirth  string `json:"date_of_birth"`
	Occupation   string `json:"occupation"`
	ProfileImage string `json:"profile_image"`
	Bio          string `json:"bio"`
}

type profileResponse struct {
	User *models.User `json:"user"`
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("failed to get profile", zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(profileResponse{User: user})
}

// UpdateProfile replaces the user-editable profile fields wholesale, the way
// the profile form submits them.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		http.Error(w, "invalid date of birth", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		DateOfBirth:  dob,
		Occupation:   req.Occupation,
		ProfileImage: req.ProfileImage,
		Bio:          req.Bio,
	})
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrInvalidRequest):
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	case errors.Is(err, apperrors.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
		return
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("failed to update profile", zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(profileResponse{User: user})
}

func parseDateOfBirth(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("unrecognized date format")
}
