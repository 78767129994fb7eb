package models

import "time"

// Admin is the back-office identity record. Unlike User it has no
// temporary/verification lifecycle: rows are created fully formed.
type Admin struct {
	ID        uint      `json:"admin_id" gorm:"primaryKey;column:admin_id"`
	Username  string    `json:"username" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=8"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
