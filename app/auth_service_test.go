package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewbuddy/domain/core"
)

func TestSignupAndLogin(t *testing.T) {
	users := newMemoryUsers()
	auth := NewAuthService(users, zap.NewNop())
	ctx := context.Background()

	u, err := auth.Signup(ctx, "Ada Lovelace", "Ada@Example.com", "analytical")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	_, err = auth.Signup(ctx, "Ada Again", "ada@example.com", "analytical")
	assert.ErrorIs(t, err, core.ErrEmailTaken)

	got, err := auth.Login(ctx, "ADA@example.com ", "analytical")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, 1, users.logins)

	_, err = auth.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", "analytical")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	byID, err := auth.User(ctx, u.UserID())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", byID.Name)
}

func TestSignupValidation(t *testing.T) {
	auth := NewAuthService(newMemoryUsers(), zap.NewNop())
	tests := []struct {
		name, email, password string
	}{
		{"A", "a@example.com", "password1"},
		{"R2D2", "r@example.com", "password1"},
		{"Valid Name", "not-an-email", "password1"},
		{"Valid Name", "v@example.com", "short"},
	}
	for _, tt := range tests {
		_, err := auth.Signup(context.Background(), tt.name, tt.email, tt.password)
		assert.True(t, core.IsValidationError(err), "%+v", tt)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	users := newMemoryUsers()
	auth := NewAuthService(users, zap.NewNop())
	u, err := auth.Signup(context.Background(), "Grace Hopper", "grace@example.com", "compilers")
	require.NoError(t, err)
	u.IsActive = false

	_, err = auth.Login(context.Background(), "grace@example.com", "compilers")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}
