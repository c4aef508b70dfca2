package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bankbroker/backend/internal/apperrors"
	"github.com/bankbroker/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	CreateWithAccounts(ctx context.Context, user *models.User, initialChecking, initialSavings decimal.Decimal) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, profile models.UserProfile) (*models.User, error)
	ListWithAccounts(ctx context.Context) ([]models.User, error)
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

// CreateWithAccounts inserts the user together with one CHECKING and one
// SAVINGS account at the given opening balances, as one database transaction.
func (r *userRepo) CreateWithAccounts(ctx context.Context, user *models.User, initialChecking, initialSavings decimal.Decimal) error {
	existing, err := r.GetByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return apperrors.ErrUserAlreadyExists
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollbackOnErr(tx, &err)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, name, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, user.Email, user.Name, user.Phone, user.Password, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return err
	}

	openings := []struct {
		accountType string
		balance     decimal.Decimal
	}{
		{models.AccountTypeChecking, initialChecking},
		{models.AccountTypeSavings, initialSavings},
	}

	user.Accounts = user.Accounts[:0]
	for _, opening := range openings {
		acc := models.Account{
			ID:      uuid.NewString(),
			UserID:  user.ID,
			Type:    opening.accountType,
			Balance: opening.balance,
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO accounts (id, user_id, type, balance)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`, acc.ID, acc.UserID, acc.Type, acc.Balance).Scan(&acc.CreatedAt)
		if err != nil {
			return err
		}
		user.Accounts = append(user.Accounts, acc)
	}

	return commit(tx)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, name, phone, password_hash, role, created_at FROM users WHERE email = $1`
	row := r.db.QueryRowContext(ctx, query, email)

	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &user.Password, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT id, email, name, phone, password_hash, role, address, date_of_birth, occupation, profile_image, bio, kyc_status, created_at FROM users WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile replaces the user-editable profile fields wholesale, the way
// the profile form submits them.
func (r *userRepo) UpdateProfile(ctx context.Context, userID int64, profile models.UserProfile) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $1, phone = $2, address = $3, date_of_birth = $4, occupation = $5, profile_image = $6, bio = $7
		WHERE id = $8
		RETURNING id, email, name, phone, password_hash, role, address, date_of_birth, occupation, profile_image, bio, kyc_status, created_at
	`
	var dob sql.NullTime
	if profile.DateOfBirth != nil {
		dob = sql.NullTime{Time: *profile.DateOfBirth, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, query,
		profile.Name, profile.Phone, profile.Address, dob,
		profile.Occupation, profile.ProfileImage, profile.Bio, userID)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		user models.User
		dob  sql.NullTime
	)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &user.Password, &user.Role,
		&user.Address, &dob, &user.Occupation, &user.ProfileImage, &user.Bio, &user.KYCStatus, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		user.DateOfBirth = &dob.Time
	}
	return &user, nil
}

func (r *userRepo) ListWithAccounts(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.phone, u.role, u.created_at,
		       a.id, a.user_id, a.type, a.balance, a.created_at
		FROM users u
		LEFT JOIN accounts a ON a.user_id = u.id
		ORDER BY u.created_at DESC, a.type
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var (
		users   []models.User
		indexOf = make(map[int64]int)
	)
	for rows.Next() {
		var (
			user models.User
			acc  models.Account

			accID        sql.NullString
			accUserID    sql.NullInt64
			accType      sql.NullString
			accBalance   sql.NullString
			accCreatedAt sql.NullTime
		)
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &user.Role, &user.CreatedAt,
			&accID, &accUserID, &accType, &accBalance, &accCreatedAt); err != nil {
			return nil, err
		}

		i, seen := indexOf[user.ID]
		if !seen {
			users = append(users, user)
			i = len(users) - 1
			indexOf[user.ID] = i
		}

		if accID.Valid {
			balance, err := decimal.NewFromString(accBalance.String)
			if err != nil {
				return nil, err
			}
			acc = models.Account{
				ID:        accID.String,
				UserID:    accUserID.Int64,
				Type:      accType.String,
				Balance:   balance,
				CreatedAt: accCreatedAt.Time,
			}
			users[i].Accounts = append(users[i].Accounts, acc)
		}
	}
	return users, rows.Err()
}
