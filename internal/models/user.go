package models

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	KYCStatusPending  = "PENDING"
	KYCStatusApproved = "APPROVED"
)

type User struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	Phone        string     `json:"phone,omitempty" db:"phone"`
	Password     string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	Address      string     `json:"address,omitempty" db:"address"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Occupation   string     `json:"occupation,omitempty" db:"occupation"`
	ProfileImage string     `json:"profile_image,omitempty" db:"profile_image"`
	Bio          string     `json:"bio,omitempty" db:"bio"`
	KYCStatus    string     `json:"kyc_status" db:"kyc_status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	Accounts []Account `json:"accounts,omitempty" db:"-"`
}

// UserProfile is the set of user-editable profile fields. Email, role and
// KYC status are not among them.
type UserProfile struct {
	Name         string
	Phone        string
	Address      string
	DateOfBirth  *time.Time
	Occupation   string
	ProfileImage string
	Bio          string
}
