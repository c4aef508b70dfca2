package service

import (
	"context"
	"testing"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/mocks/repository_mocks"
	"github.com/bankbroker/backend/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestAccountService_ListAccountTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	tests := []struct {
		name      string
		accountID string
		mockSetup func(accounts *repository_mocks.MockAccountRepository, transactions *repository_mocks.MockTransactionRepository)
		wantLen   int
		wantErr   error
	}{
		{
			name:      "own account returns its history",
			accountID: "acc-1",
			mockSetup: func(accounts *repository_mocks.MockAccountRepository, transactions *repository_mocks.MockTransactionRepository) {
				accounts.EXPECT().GetByID(ctx, "acc-1").
					Return(&models.Account{ID: "acc-1", UserID: 1}, nil).Times(1)
				transactions.EXPECT().ListByAccount(ctx, "acc-1").
					Return([]models.Transaction{
						{ID: "t-2", AccountID: "acc-1"},
						{ID: "t-1", AccountID: "acc-1"},
					}, nil).Times(1)
			},
			wantLen: 2,
		},
		{
			name:      "another user's account reads as not found",
			accountID: "acc-2",
			mockSetup: func(accounts *repository_mocks.MockAccountRepository, transactions *repository_mocks.MockTransactionRepository) {
				accounts.EXPECT().GetByID(ctx, "acc-2").
					Return(&models.Account{ID: "acc-2", UserID: 7}, nil).Times(1)
			},
			wantErr: apperrors.ErrAccountNotFound,
		},
		{
			name:      "missing account",
			accountID: "acc-9",
			mockSetup: func(accounts *repository_mocks.MockAccountRepository, transactions *repository_mocks.MockTransactionRepository) {
				accounts.EXPECT().GetByID(ctx, "acc-9").
					Return(nil, apperrors.ErrAccountNotFound).Times(1)
			},
			wantErr: apperrors.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAccounts := repository_mocks.NewMockAccountRepository(ctrl)
			mockTransactions := repository_mocks.NewMockTransactionRepository(ctrl)
			tt.mockSetup(mockAccounts, mockTransactions)

			svc := NewAccountService(mockAccounts, mockTransactions)
			transactions, err := svc.ListAccountTransactions(ctx, 1, tt.accountID)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, transactions)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, transactions, tt.wantLen)
		})
	}
}
