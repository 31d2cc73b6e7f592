package app

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/internal/errors"
	"interviewbuddy/models"
	"interviewbuddy/ports"
)

// AuthService registers and authenticates candidates.
type AuthService struct {
	users ports.UserRepository
	log   *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(users ports.UserRepository, log *zap.Logger) *AuthService {
	return &AuthService{users: users, log: log.Named("auth")}
}

// Signup validates the form and creates an account.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	name = interview.Sanitize(name)
	email = models.NormalizeEmail(email)

	switch {
	case !interview.ValidateName(name):
		return nil, core.NewValidationError("name", "must be at least 2 letters")
	case !interview.ValidateEmail(email):
		return nil, core.NewValidationError("email", "is not a valid address")
	case !interview.ValidatePassword(password):
		return nil, core.NewValidationError("password", "must be at least 8 characters")
	}

	user, err := models.NewUser(email, name, password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if stderrors.Is(err, core.ErrEmailTaken) {
			return nil, err
		}
		return nil, errors.DatabaseError("failed to create user", err)
	}
	s.log.Info("user registered", zap.String("user_id", user.UserID().String()))
	return user, nil
}

// Login checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, errors.DatabaseError("failed to load user", err)
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, core.ErrInvalidCredentials
	}
	if err := s.users.TouchLogin(ctx, user.UserID()); err != nil {
		s.log.Warn("failed to record login", zap.String("user_id", user.UserID().String()), zap.Error(err))
	}
	return user, nil
}

// User returns an account by id.
func (s *AuthService) User(ctx context.Context, id core.UserID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, err
		}
		return nil, errors.DatabaseError("failed to load user", err)
	}
	return user, nil
}
