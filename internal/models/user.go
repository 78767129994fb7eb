package models

import "time"

// UnusablePassword is the sentinel stored on placeholder rows created during
// email verification. It is never a valid bcrypt hash, so such rows can never
// pass a credential check.
const UnusablePassword = "!unverified!"

// User represents a shop customer. Rows are created in two phases: a
// placeholder (IsVerified=false, IsActive=false, sentinel password) when the
// verification email is requested, promoted to a full record on signup
// completion. A row with IsVerified=false is never a valid login target.
type User struct {
	ID          uint      `json:"user_id" gorm:"primaryKey;column:user_id"`
	Username    string    `json:"username" gorm:"type:varchar(100)" validate:"omitempty,min=2,max=100"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string    `json:"-" gorm:"type:varchar(255)"` // Never serialized
	Address     string    `json:"address" gorm:"type:varchar(255)"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(30)"`
	IsActive    bool      `json:"is_active"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SignupRequest is the payload completing a registration. The email must
// already have passed code verification.
type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Address         string `json:"address" validate:"omitempty,max=255"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=30"`
}

// UserInfo is the public projection of a principal returned by login and
// check-auth responses.
type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}
