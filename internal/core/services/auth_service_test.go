package services

import (
	"context"
	"testing"
	"time"

	"camdeck/internal/core/domain"
	"camdeck/internal/infrastructure/repositories/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(ttl time.Duration) AuthService {
	return NewAuthService(memory.NewMemoryUserRepository(), "test-secret", ttl)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(time.Hour)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
	// The hash never leaves as the raw password.
	assert.NotEqual(t, "password123", user.PasswordHash)

	loggedIn, loginToken, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(time.Hour)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Mallory", "alice@example.com", "hunter22")
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestAuthService(time.Hour)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown user looks identical to a bad password.
	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	svc := newTestAuthService(time.Hour)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	other := NewAuthService(memory.NewMemoryUserRepository(), "other-secret", time.Hour)
	_, token, err := other.Register(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	svc := newTestAuthService(time.Hour)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestAuthService(-time.Minute)

	_, token, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongSigningMethod(t *testing.T) {
	svc := newTestAuthService(time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
