package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/ports"
)

const (
	mirrorPrefix = "questions_"
	statePrefix  = "state_"
	mirrorSuffix = ".json"
)

type mirrorEntry struct {
	InterviewID core.InterviewID     `json:"interview_id"`
	Questions   []interview.Question `json:"questions"`
	SavedAt     time.Time            `json:"saved_at"`
}

// QuestionMirror implements ports.QuestionMirror with one file per interview
// at <dir>/questions_<interview id>.json and one pointer file per user at
// <dir>/state_<user id>.json.
type QuestionMirror struct {
	dir dir
	log *zap.Logger
	now func() time.Time
}

// NewQuestionMirror creates the mirror directory if needed.
func NewQuestionMirror(basePath string, log *zap.Logger) (*QuestionMirror, error) {
	d, err := newDir(basePath)
	if err != nil {
		return nil, err
	}
	return &QuestionMirror{dir: d, log: log.Named("mirror"), now: time.Now}, nil
}

var _ ports.QuestionMirror = (*QuestionMirror)(nil)

func mirrorName(id core.InterviewID) string {
	return mirrorPrefix + id.String() + mirrorSuffix
}

// Save writes the question list for id.
func (m *QuestionMirror) Save(ctx context.Context, id core.InterviewID, questions []interview.Question) error {
	if _, err := core.ParseInterviewID(id.String()); err != nil {
		return err
	}
	return m.dir.writeJSON(mirrorName(id), mirrorEntry{InterviewID: id, Questions: questions, SavedAt: m.now().UTC()})
}

// Load reads the question list for id.
func (m *QuestionMirror) Load(ctx context.Context, id core.InterviewID) ([]interview.Question, error) {
	if _, err := core.ParseInterviewID(id.String()); err != nil {
		return nil, core.ErrMirrorEntryNotFound
	}
	var entry mirrorEntry
	if err := m.dir.readJSON(mirrorName(id), &entry); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrMirrorEntryNotFound
		}
		return nil, err
	}
	return entry.Questions, nil
}

// Remove deletes the entry for id if present.
func (m *QuestionMirror) Remove(ctx context.Context, id core.InterviewID) error {
	if _, err := core.ParseInterviewID(id.String()); err != nil {
		return nil
	}
	return m.dir.remove(mirrorName(id))
}

func stateName(id core.UserID) string {
	return statePrefix + id.String() + mirrorSuffix
}

// SaveState writes the user's pointer record.
func (m *QuestionMirror) SaveState(ctx context.Context, state *interview.UserState) error {
	if !safeName(state.UserID.String()) {
		return fmt.Errorf("invalid user id %q", state.UserID)
	}
	return m.dir.writeJSON(stateName(state.UserID), state)
}

// LoadState reads the user's pointer record.
func (m *QuestionMirror) LoadState(ctx context.Context, userID core.UserID) (*interview.UserState, error) {
	if !safeName(userID.String()) {
		return nil, core.ErrMirrorEntryNotFound
	}
	var state interview.UserState
	if err := m.dir.readJSON(stateName(userID), &state); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrMirrorEntryNotFound
		}
		return nil, err
	}
	return &state, nil
}

// ClearState deletes the user's pointer record if present.
func (m *QuestionMirror) ClearState(ctx context.Context, userID core.UserID) error {
	if !safeName(userID.String()) {
		return nil
	}
	return m.dir.remove(stateName(userID))
}

// Prune removes question and state files last written before cutoff.
func (m *QuestionMirror) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(m.dir.basePath)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !mirrored(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := m.dir.remove(name); err != nil {
			m.log.Warn("failed to prune mirror entry", zap.String("file", name), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

func mirrored(name string) bool {
	if !strings.HasSuffix(name, mirrorSuffix) {
		return false
	}
	return strings.HasPrefix(name, mirrorPrefix) || strings.HasPrefix(name, statePrefix)
}
