package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chefbotpro/backend/internal/types"
)

var ErrInvalidToken = errors.New("invalid token")

// SupabaseTokenValidator verifies HS256 access tokens issued by Supabase auth
type SupabaseTokenValidator struct {
	jwtSecret []byte
	audience  string
}

// NewSupabaseTokenValidator creates a validator for tokens signed with jwtSecret.
// Supabase issues user tokens with the "authenticated" audience.
func NewSupabaseTokenValidator(jwtSecret string) *SupabaseTokenValidator {
	return &SupabaseTokenValidator{
		jwtSecret: []byte(jwtSecret),
		audience:  "authenticated",
	}
}

// ValidateToken parses tokenString and returns its claims. The subject must be set.
func (v *SupabaseTokenValidator) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID() == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateToken signs claims with the validator's secret. Only used by tooling and
// tests; production tokens come from Supabase.
func (v *SupabaseTokenValidator) GenerateToken(claims *types.TokenClaims) (string, error) {
	if len(claims.Audience) == 0 {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
