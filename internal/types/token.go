package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims of a Supabase access token
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserID returns the Supabase user id carried in the subject claim
func (c *TokenClaims) UserID() string {
	return c.Subject
}
