package jwt

import (
	"testing"
	"time"

	"go-hospital-internment/config"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})

	token, tokenID, err := svc.GenerateAccessToken("user-1", "Dra. Ana", RoleDoctor)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Dra. Ana", claims.Name)
	assert.Equal(t, RoleDoctor, claims.Role)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestJWTService_RejectsOtherSecret(t *testing.T) {
	issuer := NewJWTService(config.JWTConfig{Secret: "issuer", AccessExpiry: time.Minute})
	verifier := NewJWTService(config.JWTConfig{Secret: "verifier", AccessExpiry: time.Minute})

	token, _, err := issuer.GenerateAccessToken("user-1", "Nurse", RoleNurse)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: -time.Minute})

	token, _, err := svc.GenerateAccessToken("user-1", "Admin", RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestJWTService_RejectsTokenWithoutRole(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = NewJWTService(config.JWTConfig{Secret: "s"}).ValidateToken(token)
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("doctor")
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, role)

	_, err = ParseRole("patient")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
