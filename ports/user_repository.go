package ports

import (
	"context"

	"interviewbuddy/domain/core"
	"interviewbuddy/models"
)

// UserRepository defines the interface for account data operations
type UserRepository interface {
	// CreateUser inserts a new account; core.ErrEmailTaken when the email exists.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns core.ErrUserNotFound when no account matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns core.ErrUserNotFound when no account matches.
	GetUserByID(ctx context.Context, id core.UserID) (*models.User, error)

	// TouchLogin records a successful login.
	TouchLogin(ctx context.Context, id core.UserID) error
}
