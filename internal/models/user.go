package models

import "time"

// User is one CRM tenant (a GoHighLevel location) with its OAuth tokens.
// Tokens are refreshed transparently when inside the expiry window.
type User struct {
	// ID is the CRM-issued location id.
	ID           string    `db:"id" json:"id"`
	CompanyID    string    `db:"company_id" json:"companyId,omitempty"`
	AccessToken  string    `db:"access_token" json:"-"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TokenExpiresWithin reports whether the access token expires inside the
// given window.
func (u *User) TokenExpiresWithin(window time.Duration) bool {
	return time.Until(u.ExpiresAt) < window
}
