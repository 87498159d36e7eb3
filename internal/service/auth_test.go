package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefbotpro/backend/internal/types"
)

func newClaims(subject string, expiresIn time.Duration) *types.TokenClaims {
	return &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: "cook@example.com",
		Role:  "authenticated",
	}
}

func TestValidateTokenValid(t *testing.T) {
	v := NewSupabaseTokenValidator("test-secret")
	token, err := v.GenerateToken(newClaims("8c1f2a9e-user", time.Hour))
	require.NoError(t, err)

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "8c1f2a9e-user", claims.UserID())
	assert.Equal(t, "cook@example.com", claims.Email)
}

func TestValidateTokenInvalid(t *testing.T) {
	v := NewSupabaseTokenValidator("test-secret")

	t.Run("should reject garbage", func(t *testing.T) {
		claims, err := v.ValidateToken("invalid.token")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject a foreign signature", func(t *testing.T) {
		token, err := NewSupabaseTokenValidator("other-secret").GenerateToken(newClaims("u", time.Hour))
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject expired tokens", func(t *testing.T) {
		token, err := v.GenerateToken(newClaims("u", -time.Minute))
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject tokens without a subject", func(t *testing.T) {
		token, err := v.GenerateToken(newClaims("", time.Hour))
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject the wrong audience", func(t *testing.T) {
		claims := newClaims("u", time.Hour)
		claims.Audience = jwt.ClaimStrings{"anon"}
		token, err := v.GenerateToken(claims)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
