package service

import (
	"context"
	"time"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/models"
	"github.com/bankbroker/backend/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email           string
	Name            string
	Password        string
	Phone           string
	InitialChecking decimal.Decimal
	InitialSavings  decimal.Decimal
}

type UpdateProfileInput struct {
	Name         string
	Phone        string
	Address      string
	DateOfBirth  *time.Time
	Occupation   string
	ProfileImage string
	Bio          string
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*models.User, error)
	ListWithAccounts(ctx context.Context) ([]models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Register creates the user with its CHECKING and SAVINGS accounts at the
// given opening balances.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Email == "" || input.Name == "" || input.Password == "" {
		return nil, apperrors.ErrInvalidRequest
	}
	if len(input.Password) < 8 {
		return nil, apperrors.ErrWeakPassword
	}
	if input.InitialChecking.IsNegative() || input.InitialSavings.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	if err := s.repo.CreateWithAccounts(ctx, user, input.InitialChecking, input.InitialSavings); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile replaces the user-editable profile fields. Email, role and
// KYC status stay untouched.
func (s *userService) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*models.User, error) {
	if input.Name == "" {
		return nil, apperrors.ErrInvalidRequest
	}
	return s.repo.UpdateProfile(ctx, userID, models.UserProfile{
		Name:         input.Name,
		Phone:        input.Phone,
		Address:      input.Address,
		DateOfBirth:  input.DateOfBirth,
		Occupation:   input.Occupation,
		ProfileImage: input.ProfileImage,
		Bio:          input.Bio,
	})
}

func (s *userService) ListWithAccounts(ctx context.Context) ([]models.User, error) {
	return s.repo.ListWithAccounts(ctx)
}
