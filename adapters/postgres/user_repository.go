package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"interviewbuddy/domain/core"
	"interviewbuddy/models"
	"interviewbuddy/ports"
)

const userColumns = `id, email, name, password_hash, is_active, created_at, updated_at, last_login`

// UserRepositoryImpl implements UserRepository for PostgreSQL
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// CreateUser creates a new user
func (r *UserRepositoryImpl) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, is_active, created_at, updated_at)
		VALUES (:id, :email, :name, :password_hash, :is_active, :created_at, :updated_at)
	`, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return core.ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetUserByEmail retrieves a user by normalized email
func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, models.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id core.UserID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		// invalid_text_representation: the id is not a UUID
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "22P02" {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// TouchLogin stamps last_login
func (r *UserRepositoryImpl) TouchLogin(ctx context.Context, id core.UserID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET last_login = NOW(), updated_at = NOW() WHERE id = $1
	`, id.String())
	return err
}
