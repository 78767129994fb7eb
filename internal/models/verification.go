package models

import "time"

// EmailVerification is a short-lived one-time code tied to an email address,
// used for both signup confirmation and password reset. At most one active
// row per email is maintained by the 5-minute issue cooldown; all rows for an
// email are deleted when any code is consumed.
type EmailVerification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Email     string    `json:"email" gorm:"type:varchar(255);index"`
	Code      string    `json:"-" gorm:"type:varchar(64)"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (v *EmailVerification) Expired(now time.Time) bool {
	return !v.ExpiresAt.After(now)
}
