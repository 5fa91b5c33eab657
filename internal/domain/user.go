package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           int             `json:"id"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"`
	Role         Role            `json:"role"`
	PhoneNumber  string          `json:"phone_number"`
	Email        string          `json:"email"`
	IsActive     bool            `json:"is_active"`
	Balance      decimal.Decimal `json:"balance"`
	Gender       string          `json:"gender"`
	BirthDate    string          `json:"birth_date"`
	Bio          string          `json:"bio"`
	FoodTags     []string        `json:"food_tags"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID   int
	Username string
	Role     Role
}

type RegisterUser struct {
	Username    string `json:"username" validate:"omitempty,max=32"`
	Password    string `json:"password" validate:"omitempty,max=72"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	PhoneNumber *string   `json:"phone_number"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Gender      *string   `json:"gender" validate:"omitempty,max=16"`
	BirthDate   *string   `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Bio         *string   `json:"bio"`
	FoodTags    *[]string `json:"food_tags"`
}

type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" validate:"omitempty,max=72"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
