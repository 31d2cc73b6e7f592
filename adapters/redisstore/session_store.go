// Package redisstore stores interview sessions and user state records in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/ports"
)

const scanBatch = 100

// SessionStore implements ports.SessionStore. Values are JSON documents under
// "<prefix>:session:<interview id>" and "<prefix>:user:<user id>".
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewSessionStore wraps a connected client. A positive ttl makes Redis expire
// session keys on its own in addition to the cleanup sweep.
func NewSessionStore(client *redis.Client, prefix string, ttl time.Duration, log *zap.Logger) ports.SessionStore {
	if prefix == "" {
		prefix = "buddy"
	}
	return &SessionStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    log.With(zap.String("component", "redis")),
	}
}

func (s *SessionStore) sessionKey(id core.InterviewID) string {
	return s.prefix + ":session:" + id.String()
}

func (s *SessionStore) userKey(id core.UserID) string {
	return s.prefix + ":user:" + id.String()
}

// Save stores a new session under its interview id.
func (s *SessionStore) Save(ctx context.Context, session *interview.InterviewSession) (core.InterviewID, error) {
	if session.InterviewID.IsEmpty() {
		return "", errors.New("session has no interview id")
	}
	if err := s.put(ctx, s.sessionKey(session.InterviewID), session, s.ttl); err != nil {
		return "", err
	}
	return session.InterviewID, nil
}

// Get loads a session.
func (s *SessionStore) Get(ctx context.Context, id core.InterviewID) (*interview.InterviewSession, error) {
	var session interview.InterviewSession
	if err := s.get(ctx, s.sessionKey(id), &session); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Update overwrites a stored session, last write wins. The remaining TTL is kept.
func (s *SessionStore) Update(ctx context.Context, session *interview.InterviewSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	err = s.client.SetArgs(ctx, s.sessionKey(session.InterviewID), raw, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err()
	if errors.Is(err, redis.Nil) {
		return core.ErrSessionNotFound
	}
	return err
}

// Delete removes a session; deleting a missing one is not an error.
func (s *SessionStore) Delete(ctx context.Context, id core.InterviewID) error {
	return s.client.Del(ctx, s.sessionKey(id)).Err()
}

// DeleteExpired scans every session key and removes those created before cutoff.
func (s *SessionStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	var cursor uint64
	removed := 0
	pattern := s.prefix + ":session:*"
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return removed, err
		}
		for _, key := range keys {
			var session interview.InterviewSession
			if err := s.get(ctx, key, &session); err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				s.log.Warn("skipping unreadable session", zap.String("key", key), zap.Error(err))
				continue
			}
			if !session.ExpiredAt(cutoff) {
				continue
			}
			n, err := s.client.Del(ctx, key).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if removed > 0 {
		s.log.Info("expired sessions removed", zap.Int("count", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}

// GetUserState loads the user's pointer record.
func (s *SessionStore) GetUserState(ctx context.Context, userID core.UserID) (*interview.UserState, error) {
	var state interview.UserState
	if err := s.get(ctx, s.userKey(userID), &state); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrUserStateNotFound
		}
		return nil, err
	}
	return &state, nil
}

// SaveUserState overwrites the user's pointer record.
func (s *SessionStore) SaveUserState(ctx context.Context, state *interview.UserState) error {
	return s.put(ctx, s.userKey(state.UserID), state, 0)
}

// ClearUserState removes the user's pointer record.
func (s *SessionStore) ClearUserState(ctx context.Context, userID core.UserID) error {
	return s.client.Del(ctx, s.userKey(userID)).Err()
}

func (s *SessionStore) put(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyKind(key), err)
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}

func (s *SessionStore) get(ctx context.Context, key string, v any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", keyKind(key), err)
	}
	return nil
}

// keyKind returns the middle segment of a key for error messages.
func keyKind(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 3 {
		return key
	}
	return parts[1]
}
