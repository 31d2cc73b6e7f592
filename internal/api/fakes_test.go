package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/models"
)

// memorySessions keeps sessions as JSON so callers never share state with it.
type memorySessions struct {
	mu       sync.Mutex
	sessions map[core.InterviewID][]byte
	states   map[core.UserID][]byte
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[core.InterviewID][]byte{}, states: map[core.UserID][]byte{}}
}

func (m *memorySessions) Save(ctx context.Context, s *interview.InterviewSession) (core.InterviewID, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.InterviewID] = raw
	return s.InterviewID, nil
}

func (m *memorySessions) Get(ctx context.Context, id core.InterviewID) (*interview.InterviewSession, error) {
	m.mu.Lock()
	raw, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	var s interview.InterviewSession
	return &s, json.Unmarshal(raw, &s)
}

func (m *memorySessions) Update(ctx context.Context, s *interview.InterviewSession) error {
	m.mu.Lock()
	_, ok := m.sessions[s.InterviewID]
	m.mu.Unlock()
	if !ok {
		return core.ErrSessionNotFound
	}
	_, err := m.Save(ctx, s)
	return err
}

func (m *memorySessions) Delete(ctx context.Context, id core.InterviewID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memorySessions) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

func (m *memorySessions) GetUserState(ctx context.Context, userID core.UserID) (*interview.UserState, error) {
	m.mu.Lock()
	raw, ok := m.states[userID]
	m.mu.Unlock()
	if !ok {
		return nil, core.ErrUserStateNotFound
	}
	var st interview.UserState
	return &st, json.Unmarshal(raw, &st)
}

func (m *memorySessions) SaveUserState(ctx context.Context, st *interview.UserState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.UserID] = raw
	return nil
}

func (m *memorySessions) ClearUserState(ctx context.Context, userID core.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}

type memoryUsers struct {
	mu    sync.Mutex
	users []*models.User
}

func (m *memoryUsers) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return core.ErrEmailTaken
		}
	}
	m.users = append(m.users, u)
	return nil
}

func (m *memoryUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == models.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (m *memoryUsers) GetUserByID(ctx context.Context, id core.UserID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserID() == id {
			return u, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (m *memoryUsers) TouchLogin(ctx context.Context, id core.UserID) error {
	return nil
}
