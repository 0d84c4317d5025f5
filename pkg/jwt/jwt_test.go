package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken(42, true, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.True(t, claims.Anonymous)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := GenerateToken(7, false, secret, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(7, false, secret, -time.Minute)
	require.NoError(t, err)
	noSubject, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	noExpiry, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject: "7",
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, secret},
		{"garbage", "not-a-token", secret},
		{"missing subject", noSubject, secret},
		{"missing expiry", noExpiry, secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestInvalidTokenError(t *testing.T) {
	err := invalidTokenError(nil)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotContains(t, err.Error(), "<nil>")

	err = invalidTokenError(gojwt.ErrTokenExpired)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), gojwt.ErrTokenExpired.Error())
}
