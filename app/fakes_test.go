package app

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/models"
)

// memoryStore is an in-memory SessionStore. Setting down makes every
// operation fail, as when Redis is unreachable.
type memoryStore struct {
	mu           sync.Mutex
	sessions     map[core.InterviewID]interview.InterviewSession
	states       map[core.UserID]interview.UserState
	down         error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: map[core.InterviewID]interview.InterviewSession{},
		states:   map[core.UserID]interview.UserState{},
	}
}

func copySession(s interview.InterviewSession) *interview.InterviewSession {
	answers := interview.Answers{}
	for k, v := range s.UserAnswers {
		answers[k] = v
	}
	s.UserAnswers = answers
	s.Questions = append([]interview.Question(nil), s.Questions...)
	return &s
}

func (m *memoryStore) Save(ctx context.Context, s *interview.InterviewSession) (core.InterviewID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down != nil {
		return "", m.down
	}
	m.sessions[s.InterviewID] = *copySession(*s)
	return s.InterviewID, nil
}

func (m *memoryStore) Get(ctx context.Context, id core.InterviewID) (*interview.InterviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down != nil {
		return nil, m.down
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return copySession(s), nil
}

func (m *memoryStore) Update(ctx context.Context, s *interview.InterviewSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down != nil {
		return m.down
	}
	if _, ok := m.sessions[s.InterviewID]; !ok {
		return core.ErrSessionNotFound
	}
	m.sessions[s.InterviewID] = *copySession(*s)
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, id core.InterviewID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down != nil {
		return m.down
	}
	delete(m.sessions, id)
	return nil
}

func (m *memoryStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down != nil {
		return 0, m.down
	}
	n := 0
	for id, s := range m.sessions {
		if s.ExpiredAt(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) GetUserState(ctx context.Context, userID core.UserID) (*interview.UserState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down != nil {
		return nil, m.down
	}
	st, ok := m.states[userID]
	if !ok {
		return nil, core.ErrUserStateNotFound
	}
	return &st, nil
}

func (m *memoryStore) SaveUserState(ctx context.Context, st *interview.UserState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down != nil {
		return m.down
	}
	m.states[st.UserID] = *st
	return nil
}

func (m *memoryStore) ClearUserState(ctx context.Context, userID core.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down != nil {
		return m.down
	}
	delete(m.states, userID)
	return nil
}

type memoryMirror struct {
	mu      sync.Mutex
	entries map[core.InterviewID][]interview.Question
	saved   map[core.InterviewID]time.Time
	states  map[core.UserID]interview.UserState
}

func newMemoryMirror() *memoryMirror {
	return &memoryMirror{
		entries: map[core.InterviewID][]interview.Question{},
		saved:   map[core.InterviewID]time.Time{},
		states:  map[core.UserID]interview.UserState{},
	}
}

func (m *memoryMirror) SaveState(ctx context.Context, st *interview.UserState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.UserID] = *st
	return nil
}

func (m *memoryMirror) LoadState(ctx context.Context, userID core.UserID) (*interview.UserState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[userID]
	if !ok {
		return nil, core.ErrMirrorEntryNotFound
	}
	return &st, nil
}

func (m *memoryMirror) ClearState(ctx context.Context, userID core.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}

func (m *memoryMirror) Save(ctx context.Context, id core.InterviewID, qs []interview.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = qs
	m.saved[id] = time.Now()
	return nil
}

func (m *memoryMirror) Load(ctx context.Context, id core.InterviewID) ([]interview.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qs, ok := m.entries[id]
	if !ok {
		return nil, core.ErrMirrorEntryNotFound
	}
	return qs, nil
}

func (m *memoryMirror) Remove(ctx context.Context, id core.InterviewID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	delete(m.saved, id)
	return nil
}

func (m *memoryMirror) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, at := range m.saved {
		if at.Before(cutoff) {
			delete(m.entries, id)
			delete(m.saved, id)
			n++
		}
	}
	return n, nil
}

// MockReportRepository is a testify mock for ports.ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Save(ctx context.Context, r *interview.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReportRepository) Get(ctx context.Context, userID core.UserID, id core.ReportID) (*interview.Report, error) {
	args := m.Called(ctx, userID, id)
	r, _ := args.Get(0).(*interview.Report)
	return r, args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, userID core.UserID) ([]*interview.Report, error) {
	args := m.Called(ctx, userID)
	rs, _ := args.Get(0).([]*interview.Report)
	return rs, args.Error(1)
}

func (m *MockReportRepository) Delete(ctx context.Context, userID core.UserID, id core.ReportID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type memoryUsers struct {
	mu     sync.Mutex
	byID   map[core.UserID]*models.User
	logins int
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[core.UserID]*models.User{}}
}

func (m *memoryUsers) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return core.ErrEmailTaken
		}
	}
	m.byID[u.UserID()] = u
	return nil
}

func (m *memoryUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == models.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (m *memoryUsers) GetUserByID(ctx context.Context, id core.UserID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) TouchLogin(ctx context.Context, id core.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins++
	return nil
}
