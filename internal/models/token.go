package models

import "time"

// RefreshToken is the database-backed half of a session. UserID and AdminID
// are mutually exclusive; IsAdmin records which one is set. Multiple rows per
// principal may coexist (concurrent logins are not deduplicated); logout
// deletes every row for the principal.
type RefreshToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"user_id,omitempty" gorm:"index"`
	AdminID   *uint     `json:"admin_id,omitempty" gorm:"index"`
	IsAdmin   bool      `json:"is_admin"`
	Token     string    `json:"-" gorm:"type:varchar(512);index"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal reconstructs the owning identity from the row.
func (t *RefreshToken) Principal() Principal {
	if t.IsAdmin && t.AdminID != nil {
		return Principal{Kind: PrincipalAdmin, ID: *t.AdminID}
	}
	if t.UserID != nil {
		return Principal{Kind: PrincipalUser, ID: *t.UserID}
	}
	return Principal{}
}

// NewRefreshTokenRow builds the row for a principal, selecting the id column
// by kind.
func NewRefreshTokenRow(p Principal, token string, expiresAt time.Time) *RefreshToken {
	row := &RefreshToken{Token: token, ExpiresAt: expiresAt, IsAdmin: p.IsAdmin()}
	id := p.ID
	if p.IsAdmin() {
		row.AdminID = &id
	} else {
		row.UserID = &id
	}
	return row
}
