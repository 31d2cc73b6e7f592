package migration

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"interviewbuddy/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	log     *zap.Logger
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		log:     zap.L().Named("migration"),
	}
}

// WithLogger replaces the logger used for non-fatal warnings.
func (r *MigrationRunner) WithLogger(log *zap.Logger) *MigrationRunner {
	r.log = log.Named("migration")
	return r
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createUsersTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create users table")
	}

	if err := r.addUserAuthColumns(ctx, db); err != nil {
		return errors.Wrap(err, "failed to add users auth columns")
	}

	if err := r.createReportsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create reports table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createUsersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(100) NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			last_login TIMESTAMP WITH TIME ZONE
		)
	`)
	return err
}

// addUserAuthColumns upgrades a users table created before accounts had passwords.
func (r *MigrationRunner) addUserAuthColumns(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		ALTER TABLE users ADD COLUMN IF NOT EXISTS name VARCHAR(100) NOT NULL DEFAULT '';
		ALTER TABLE users ADD COLUMN IF NOT EXISTS password_hash TEXT NOT NULL DEFAULT '';
		ALTER TABLE users ADD COLUMN IF NOT EXISTS last_login TIMESTAMP WITH TIME ZONE;
	`)
	return err
}

func (r *MigrationRunner) createReportsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			job_role VARCHAR(100) NOT NULL,
			domain VARCHAR(100) NOT NULL,
			interview_type VARCHAR(50) NOT NULL,
			overall_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			setup JSONB NOT NULL,
			questions JSONB NOT NULL,
			answers JSONB NOT NULL,
			results JSONB NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_reports_user_id ON reports(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_reports_user_created ON reports(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reports_domain ON reports(domain)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			r.log.Warn("failed to create index", zap.String("sql", idxSQL), zap.Error(err))
		}
	}

	return nil
}
