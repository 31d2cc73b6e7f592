package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/internal/errors"
	"interviewbuddy/ports"
)

// InterviewService drives the interview lifecycle for one user at a time:
// setup, question generation, answering and navigation, and completion. The
// session store is authoritative; the mirror keeps the question list readable
// when the store is not.
type InterviewService struct {
	store      ports.SessionStore
	mirror     ports.QuestionMirror
	source     ports.QuestionSource
	aggregator *ReportAggregator
	now        func() time.Time
	log        *zap.Logger
}

// SessionView is what the question page needs to render.
type SessionView struct {
	InterviewID core.InterviewID          `json:"interview_id"`
	Setup       interview.SetupDescriptor `json:"setup"`
	Questions   []interview.Question      `json:"questions"`
	Answers     interview.Answers         `json:"answers"`
	Current     int                       `json:"current_question"`
	Total       int                       `json:"total_questions"`
	// Recovered is set when the questions came from the mirror and earlier answers are gone.
	Recovered bool `json:"recovered,omitempty"`
}

// NewInterviewService wires the lifecycle to its ports.
func NewInterviewService(store ports.SessionStore, mirror ports.QuestionMirror, source ports.QuestionSource, aggregator *ReportAggregator, log *zap.Logger) *InterviewService {
	return &InterviewService{
		store:      store,
		mirror:     mirror,
		source:     source,
		aggregator: aggregator,
		now:        time.Now,
		log:        log.Named("interview"),
	}
}

// State returns the user's pointer record, empty when nothing is stored. When
// the store is unreachable the mirrored record is used.
func (s *InterviewService) State(ctx context.Context, userID core.UserID) (*interview.UserState, error) {
	state, err := s.store.GetUserState(ctx, userID)
	if stderrors.Is(err, core.ErrUserStateNotFound) {
		return &interview.UserState{UserID: userID}, nil
	}
	if err == nil {
		return state, nil
	}

	mirrored, mirrorErr := s.mirror.LoadState(ctx, userID)
	if mirrorErr != nil {
		return nil, errors.DatabaseError("failed to load user state", err)
	}
	s.log.Warn("session store unavailable, using mirrored user state",
		zap.String("user_id", userID.String()), zap.Error(err))
	return mirrored, nil
}

// saveState writes the pointer record to the mirror and the store. A store
// failure is tolerated once the mirror holds the record.
func (s *InterviewService) saveState(ctx context.Context, state *interview.UserState, message string) error {
	mirrorErr := s.mirror.SaveState(ctx, state)
	if mirrorErr != nil {
		s.log.Warn("failed to mirror user state", zap.String("user_id", state.UserID.String()), zap.Error(mirrorErr))
	}
	if err := s.store.SaveUserState(ctx, state); err != nil {
		if mirrorErr != nil {
			return errors.DatabaseError(message, err)
		}
		s.log.Error("failed to store user state, continuing from mirror",
			zap.String("user_id", state.UserID.String()), zap.Error(err))
	}
	return nil
}

// SubmitSetup validates and records the setup for the next generation. Nothing
// is stored when validation fails.
func (s *InterviewService) SubmitSetup(ctx context.Context, userID core.UserID, setup interview.SetupDescriptor) (*interview.UserState, error) {
	setup.JobRole = interview.Sanitize(setup.JobRole)
	setup.Domain = interview.Sanitize(setup.Domain)
	setup.Difficulty = interview.Sanitize(setup.Difficulty)
	if err := interview.ValidateSetup(setup); err != nil {
		return nil, err
	}
	setup = setup.Normalized()

	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	state.Setup = &setup
	state.UpdatedAt = s.now().UTC()
	if err := s.saveState(ctx, state, "failed to save setup"); err != nil {
		return nil, err
	}
	return state, nil
}

// GenerateQuestions replaces any running interview with a fresh one built from
// the stored setup. Failed store writes are tolerated when the question list
// and user state reached the mirror.
func (s *InterviewService) GenerateQuestions(ctx context.Context, userID core.UserID) (*SessionView, *ports.GenerationAudit, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if state.Setup == nil {
		return nil, nil, core.ErrNoSetup
	}
	setup := *state.Setup

	if !state.InterviewID.IsEmpty() {
		s.discard(ctx, state.InterviewID)
	}

	gen, err := s.source.Generate(ctx, setup)
	if err != nil {
		return nil, nil, fmt.Errorf("generate questions: %w", err)
	}

	now := s.now().UTC()
	session := interview.NewSession(userID, setup, gen.Questions, now)

	mirrorErr := s.mirror.Save(ctx, session.InterviewID, session.Questions)
	if mirrorErr != nil {
		s.log.Warn("failed to mirror questions", zap.String("interview_id", session.InterviewID.String()), zap.Error(mirrorErr))
	}
	if _, err := s.store.Save(ctx, session); err != nil {
		if mirrorErr != nil {
			return nil, nil, errors.DatabaseError("failed to store interview", err)
		}
		s.log.Error("failed to store interview, continuing from mirror",
			zap.String("interview_id", session.InterviewID.String()), zap.Error(err))
	}

	state.InterviewID = session.InterviewID
	state.ReportID = ""
	state.UpdatedAt = now
	if err := s.saveState(ctx, state, "failed to save user state"); err != nil {
		return nil, nil, err
	}

	s.log.Info("interview started",
		zap.String("user_id", userID.String()),
		zap.String("interview_id", session.InterviewID.String()),
		zap.String("generator", gen.Audit.GeneratorType),
		zap.Int("questions", session.Total()),
		zap.Int("dropped", len(gen.Audit.Dropped)))

	return viewOf(session, false), &gen.Audit, nil
}

// Current returns the running interview.
func (s *InterviewService) Current(ctx context.Context, userID core.UserID) (*SessionView, error) {
	_, session, recovered, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return viewOf(session, recovered), nil
}

// SubmitAnswer stores the answer for index exactly as typed, replacing an
// earlier one. The cursor does not move.
func (s *InterviewService) SubmitAnswer(ctx context.Context, userID core.UserID, index int, answer string) (*SessionView, error) {
	return s.mutate(ctx, userID, func(session *interview.InterviewSession) error {
		if index < 0 || index >= session.Total() {
			return session.RecordAnswer(index, answer)
		}
		q := session.Questions[index]
		if q.IsMCQ() && answer != "" {
			if err := interview.ValidateAnswer(q.Type, answer); err != nil {
				return err
			}
		}
		return session.RecordAnswer(index, answer)
	})
}

// Next advances the cursor. completed is true when the cursor was already on
// the last question; the caller then offers completion.
func (s *InterviewService) Next(ctx context.Context, userID core.UserID) (view *SessionView, completed bool, err error) {
	view, err = s.mutate(ctx, userID, func(session *interview.InterviewSession) error {
		completed = session.Next()
		return nil
	})
	return view, completed, err
}

// Previous moves the cursor back; core.ErrAlreadyAtFirst at the first question.
func (s *InterviewService) Previous(ctx context.Context, userID core.UserID) (*SessionView, error) {
	return s.mutate(ctx, userID, func(session *interview.InterviewSession) error {
		return session.Previous()
	})
}

// Jump moves the cursor to index.
func (s *InterviewService) Jump(ctx context.Context, userID core.UserID, index int) (*SessionView, error) {
	return s.mutate(ctx, userID, func(session *interview.InterviewSession) error {
		return session.Jump(index)
	})
}

// Complete evaluates the interview and saves the report. On success only the
// report id is kept in the user state; on failure nothing changes and the call
// can be retried.
func (s *InterviewService) Complete(ctx context.Context, userID core.UserID) (*interview.Report, error) {
	state, session, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	report, err := s.aggregator.Complete(ctx, session)
	if err != nil {
		return nil, err
	}

	s.discard(ctx, session.InterviewID)
	state.Setup = nil
	state.InterviewID = ""
	state.ReportID = report.ID
	state.UpdatedAt = s.now().UTC()
	if err := s.saveState(ctx, state, "failed to save user state"); err != nil {
		s.log.Warn("report saved but user state not updated",
			zap.String("report_id", report.ID.String()), zap.Error(err))
	}
	return report, nil
}

// Abandon drops the running interview and the user state, used on logout.
func (s *InterviewService) Abandon(ctx context.Context, userID core.UserID) error {
	state, err := s.State(ctx, userID)
	if err != nil {
		return err
	}
	if !state.InterviewID.IsEmpty() {
		s.discard(ctx, state.InterviewID)
	}
	if err := s.mirror.ClearState(ctx, userID); err != nil {
		s.log.Warn("failed to remove mirrored user state", zap.String("user_id", userID.String()), zap.Error(err))
	}
	if err := s.store.ClearUserState(ctx, userID); err != nil {
		return errors.DatabaseError("failed to clear user state", err)
	}
	return nil
}

// CleanupExpired removes sessions and mirror files older than maxAge.
func (s *InterviewService) CleanupExpired(ctx context.Context, maxAge time.Duration) (sessions, mirrored int, err error) {
	cutoff := s.now().Add(-maxAge)
	sessions, err = s.store.DeleteExpired(ctx, cutoff)
	if err != nil {
		return sessions, 0, errors.DatabaseError("failed to delete expired sessions", err)
	}
	mirrored, err = s.mirror.Prune(ctx, cutoff)
	if err != nil {
		return sessions, mirrored, errors.DatabaseError("failed to prune question mirror", err)
	}
	return sessions, mirrored, nil
}

// load resolves the running interview. When the store cannot produce it the
// mirrored question list is used and answers start empty.
func (s *InterviewService) load(ctx context.Context, userID core.UserID) (*interview.UserState, *interview.InterviewSession, bool, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, nil, false, err
	}
	if state.InterviewID.IsEmpty() {
		return nil, nil, false, core.ErrNoActiveInterview
	}

	session, err := s.store.Get(ctx, state.InterviewID)
	if err == nil && session.UserID == userID {
		return state, session, false, nil
	}
	if err != nil && !stderrors.Is(err, core.ErrSessionNotFound) {
		s.log.Warn("session store read failed, trying mirror", zap.String("interview_id", state.InterviewID.String()), zap.Error(err))
	}

	questions, mirrorErr := s.mirror.Load(ctx, state.InterviewID)
	if mirrorErr != nil || len(questions) == 0 || state.Setup == nil {
		return nil, nil, false, core.ErrQuestionsNotFound
	}
	s.log.Warn("interview recovered from mirror", zap.String("interview_id", state.InterviewID.String()))
	return state, interview.RecoverSession(state.InterviewID, userID, *state.Setup, questions, s.now().UTC()), true, nil
}

// mutate applies fn to the running interview and writes it back. Nothing is
// written when fn fails.
func (s *InterviewService) mutate(ctx context.Context, userID core.UserID, fn func(*interview.InterviewSession) error) (*SessionView, error) {
	_, session, recovered, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	session.Touch(s.now().UTC())

	err = s.store.Update(ctx, session)
	if stderrors.Is(err, core.ErrSessionNotFound) {
		_, err = s.store.Save(ctx, session)
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to update interview", err)
	}
	return viewOf(session, recovered), nil
}

// discard removes a session and its mirror entry. Failures are logged; both
// deletes are idempotent.
func (s *InterviewService) discard(ctx context.Context, id core.InterviewID) {
	if err := s.store.Delete(ctx, id); err != nil {
		s.log.Warn("failed to delete interview", zap.String("interview_id", id.String()), zap.Error(err))
	}
	if err := s.mirror.Remove(ctx, id); err != nil {
		s.log.Warn("failed to remove mirrored questions", zap.String("interview_id", id.String()), zap.Error(err))
	}
}

func viewOf(session *interview.InterviewSession, recovered bool) *SessionView {
	answers := session.UserAnswers
	if answers == nil {
		answers = interview.Answers{}
	}
	return &SessionView{
		InterviewID: session.InterviewID,
		Setup:       session.Setup,
		Questions:   session.Questions,
		Answers:     answers,
		Current:     session.CurrentQuestion,
		Total:       session.Total(),
		Recovered:   recovered,
	}
}
