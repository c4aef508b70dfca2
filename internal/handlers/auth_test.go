package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/mocks/service_mocks"
	"github.com/bankbroker/backend/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

func TestHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUserService := service_mocks.NewMockUserService(ctrl)
	h := &Handler{userService: mockUserService, secretKey: "test-secret"}

	tests := []struct {
		name           string
		body           string
		mockSetup      func()
		wantStatusCode int
		wantToken      bool
	}{
		{
			name: "success with opening balances",
			body: `{"email":"jane@example.com","name":"Jane Doe","password":"supersecret","initial_checking_amount":1500.00,"initial_savings_amount":5000.00}`,
			mockSetup: func() {
				mockUserService.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ interface{}, input interface{}) (*models.User, error) {
						return &models.User{ID: 1, Email: "jane@example.com", Role: models.RoleUser,
							Accounts: []models.Account{
								{Type: models.AccountTypeChecking, Balance: decimal.RequireFromString("1500.00")},
								{Type: models.AccountTypeSavings, Balance: decimal.RequireFromString("5000.00")},
							}}, nil
					})
			},
			wantStatusCode: http.StatusOK,
			wantToken:      true,
		},
		{
			name: "duplicate email",
			body: `{"email":"jane@example.com","name":"Jane Doe","password":"supersecret"}`,
			mockSetup: func() {
				mockUserService.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(nil, apperrors.ErrUserAlreadyExists)
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "weak password",
			body: `{"email":"jane@example.com","name":"Jane Doe","password":"short"}`,
			mockSetup: func() {
				mockUserService.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(nil, apperrors.ErrWeakPassword)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{`,
			mockSetup:      func() {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "service error",
			body: `{"email":"jane@example.com","name":"Jane Doe","password":"supersecret"}`,
			mockSetup: func() {
				mockUserService.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db down"))
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Register(w, req)
			resp := w.Result()
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatusCode {
				t.Errorf("got status %d, want %d", resp.StatusCode, tt.wantStatusCode)
			}
			if tt.wantToken {
				var body authResponse
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if body.Token == "" {
					t.Error("expected token in response")
				}
			}
		})
	}
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUserService := service_mocks.NewMockUserService(ctrl)
	h := &Handler{userService: mockUserService, secretKey: "test-secret"}

	tests := []struct {
		name           string
		body           string
		mockSetup      func()
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email":"jane@example.com","password":"supersecret"}`,
			mockSetup: func() {
				mockUserService.EXPECT().Authenticate(gomock.Any(), "jane@example.com", "supersecret").
					Return(&models.User{ID: 1, Email: "jane@example.com", Role: models.RoleUser}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "invalid credentials",
			body: `{"email":"jane@example.com","password":"wrong"}`,
			mockSetup: func() {
				mockUserService.EXPECT().Authenticate(gomock.Any(), "jane@example.com", "wrong").
					Return(nil, apperrors.ErrInvalidCredentials)
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			body:           `{"email":"jane@example.com"}`,
			mockSetup:      func() {},
			wantStatusCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Login(w, req)
			resp := w.Result()
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatusCode {
				t.Errorf("got status %d, want %d", resp.StatusCode, tt.wantStatusCode)
			}
		})
	}
}
