package ports

import (
	"context"
	"time"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
)

// SessionStore is the authoritative per-user store for interview sessions and
// the user state pointer record.
type SessionStore interface {
	// Save stores a new session and returns its id.
	Save(ctx context.Context, session *interview.InterviewSession) (core.InterviewID, error)
	// Get returns core.ErrSessionNotFound when the id is unknown.
	Get(ctx context.Context, id core.InterviewID) (*interview.InterviewSession, error)
	Update(ctx context.Context, session *interview.InterviewSession) error
	// Delete is idempotent.
	Delete(ctx context.Context, id core.InterviewID) error
	// DeleteExpired removes sessions created before cutoff and returns how many.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)

	// GetUserState returns core.ErrUserStateNotFound when nothing is stored.
	GetUserState(ctx context.Context, userID core.UserID) (*interview.UserState, error)
	SaveUserState(ctx context.Context, state *interview.UserState) error
	ClearUserState(ctx context.Context, userID core.UserID) error
}

// QuestionMirror is the best-effort local copy of a session's question list
// and of the user state that points at it, so a running interview can still be
// found and read while the session store is unreachable. Answers are never
// mirrored.
type QuestionMirror interface {
	Save(ctx context.Context, id core.InterviewID, questions []interview.Question) error
	// Load returns core.ErrMirrorEntryNotFound when nothing is mirrored.
	Load(ctx context.Context, id core.InterviewID) ([]interview.Question, error)
	Remove(ctx context.Context, id core.InterviewID) error
	// Prune removes entries older than cutoff and returns how many.
	Prune(ctx context.Context, cutoff time.Time) (int, error)

	SaveState(ctx context.Context, state *interview.UserState) error
	// LoadState returns core.ErrMirrorEntryNotFound when nothing is mirrored.
	LoadState(ctx context.Context, userID core.UserID) (*interview.UserState, error)
	ClearState(ctx context.Context, userID core.UserID) error
}
