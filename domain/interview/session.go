package interview

import (
	"fmt"
	"strconv"
	"time"

	"interviewbuddy/domain/core"
)

// Phase is a state of the interview lifecycle.
type Phase string

const (
	PhaseNoSetup    Phase = "no_setup"
	PhaseSetup      Phase = "setup"
	PhaseLoading    Phase = "loading"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

// InterviewSession is the durable state of one running interview.
type InterviewSession struct {
	InterviewID     core.InterviewID `json:"interview_id"`
	UserID          core.UserID      `json:"user_id"`
	Questions       []Question       `json:"questions"`
	UserAnswers     Answers          `json:"user_answers"`
	CurrentQuestion int              `json:"current_question"`
	Setup           SetupDescriptor  `json:"setup"`
	CreatedAt       time.Time        `json:"created_at"`
	LastUpdated     time.Time        `json:"last_updated"`
}

// NewSession starts an interview at the first question with no answers.
func NewSession(userID core.UserID, setup SetupDescriptor, questions []Question, now time.Time) *InterviewSession {
	return &InterviewSession{
		InterviewID:     core.NewInterviewID(userID, now),
		UserID:          userID,
		Questions:       questions,
		UserAnswers:     Answers{},
		CurrentQuestion: 0,
		Setup:           setup,
		CreatedAt:       now,
		LastUpdated:     now,
	}
}

// RecoverSession rebuilds a session from mirrored questions. Answers are not
// mirrored and start empty.
func RecoverSession(id core.InterviewID, userID core.UserID, setup SetupDescriptor, questions []Question, now time.Time) *InterviewSession {
	return &InterviewSession{
		InterviewID: id,
		UserID:      userID,
		Questions:   questions,
		UserAnswers: Answers{},
		Setup:       setup,
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// Total returns the number of questions.
func (s *InterviewSession) Total() int {
	return len(s.Questions)
}

// Current returns the question under the cursor.
func (s *InterviewSession) Current() (Question, bool) {
	if s.CurrentQuestion < 0 || s.CurrentQuestion >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentQuestion], true
}

// Next advances the cursor. At the last question the cursor stays put and
// completed is true; producing the report is a separate action.
func (s *InterviewSession) Next() (completed bool) {
	if s.CurrentQuestion < s.Total()-1 {
		s.CurrentQuestion++
		return false
	}
	return true
}

// Previous moves the cursor back one question.
func (s *InterviewSession) Previous() error {
	if s.CurrentQuestion <= 0 {
		return core.ErrAlreadyAtFirst
	}
	s.CurrentQuestion--
	return nil
}

// Jump moves the cursor to index j.
func (s *InterviewSession) Jump(j int) error {
	if j < 0 || j >= s.Total() {
		return fmt.Errorf("%w: %d not in [0,%d)", core.ErrInvalidQuestionIndex, j, s.Total())
	}
	s.CurrentQuestion = j
	return nil
}

// RecordAnswer stores the answer for index i, replacing any earlier one. The
// cursor is not touched and i need not equal it.
func (s *InterviewSession) RecordAnswer(i int, answer string) error {
	if i < 0 || i >= s.Total() {
		return fmt.Errorf("%w: %d not in [0,%d)", core.ErrInvalidQuestionIndex, i, s.Total())
	}
	if s.UserAnswers == nil {
		s.UserAnswers = Answers{}
	}
	s.UserAnswers[indexKey(i)] = answer
	return nil
}

// Touch stamps the last update time.
func (s *InterviewSession) Touch(now time.Time) {
	s.LastUpdated = now
}

// ExpiredAt reports whether the session was created before cutoff.
func (s *InterviewSession) ExpiredAt(cutoff time.Time) bool {
	return s.CreatedAt.Before(cutoff)
}

func indexKey(i int) string {
	return strconv.Itoa(i)
}
