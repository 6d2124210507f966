package pasetotoken

import "time"

// Claims is the app-facing token payload.
type Claims struct {
	UserID string
	Role   string

	Issuer   string
	Audience string

	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	TokenID   string // jti
}

// GetUserID implements reqctx.AuthClaims.
func (c *Claims) GetUserID() string { return c.UserID }

// GetRole implements reqctx.AuthClaims.
func (c *Claims) GetRole() string { return c.Role }

// IsExpired implements reqctx.AuthClaims.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
