package filestore

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"interviewbuddy/domain/core"
	"interviewbuddy/models"
	"interviewbuddy/ports"
)

const usersFileName = "users.json"

// userRecord is the stored form of models.User; the hash is hidden from the
// model's JSON so it gets its own field here.
type userRecord struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"password_hash"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func recordOf(u *models.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		LastLogin:    u.LastLogin,
	}
}

func (r userRecord) user() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin,
	}
}

// UserRepository implements ports.UserRepository over a single users.json,
// for local runs without postgres.
type UserRepository struct {
	dir dir
	mu  sync.Mutex
	now func() time.Time
}

// NewUserRepository creates the directory if needed.
func NewUserRepository(basePath string) (*UserRepository, error) {
	d, err := newDir(basePath)
	if err != nil {
		return nil, err
	}
	return &UserRepository{dir: d, now: time.Now}, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) load() ([]userRecord, error) {
	records := []userRecord{}
	if err := r.dir.readJSON(usersFileName, &records); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return records, nil
}

// CreateUser appends an account; core.ErrEmailTaken when the email exists.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	email := models.NormalizeEmail(user.Email)
	for _, rec := range records {
		if rec.Email == email {
			return core.ErrEmailTaken
		}
	}
	rec := recordOf(user)
	rec.Email = email
	return r.dir.writeJSON(usersFileName, append(records, rec))
}

// GetUserByEmail finds an account by normalized email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	return r.find(func(rec userRecord) bool { return rec.Email == email })
}

// GetUserByID finds an account by id.
func (r *UserRepository) GetUserByID(ctx context.Context, id core.UserID) (*models.User, error) {
	uid, err := uuid.Parse(id.String())
	if err != nil {
		return nil, core.ErrUserNotFound
	}
	return r.find(func(rec userRecord) bool { return rec.ID == uid })
}

// TouchLogin stamps last_login.
func (r *UserRepository) TouchLogin(ctx context.Context, id core.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	now := r.now().UTC()
	for i := range records {
		if records[i].ID.String() == id.String() {
			records[i].LastLogin = &now
			records[i].UpdatedAt = now
			return r.dir.writeJSON(usersFileName, records)
		}
	}
	return core.ErrUserNotFound
}

func (r *UserRepository) find(match func(userRecord) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if match(rec) {
			return rec.user(), nil
		}
	}
	return nil, core.ErrUserNotFound
}
