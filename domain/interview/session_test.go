package interview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewbuddy/domain/core"
)

func newTestSession(n int) *InterviewSession {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{Text: "q", Type: QuestionShort, Category: "General"}
	}
	return NewSession("user-1", SetupDescriptor{JobRole: "Software Engineer"}, qs, time.Now())
}

func TestNewSessionStartsAtFirstQuestion(t *testing.T) {
	s := newTestSession(3)

	assert.Equal(t, 0, s.CurrentQuestion)
	assert.Empty(t, s.UserAnswers)
	assert.NotNil(t, s.UserAnswers)
	assert.False(t, s.InterviewID.IsEmpty())
}

func TestPreviousAtFirstQuestionFails(t *testing.T) {
	s := newTestSession(3)

	err := s.Previous()

	assert.ErrorIs(t, err, core.ErrAlreadyAtFirst)
	assert.Equal(t, 0, s.CurrentQuestion)
}

func TestNextAtLastQuestionSignalsCompletion(t *testing.T) {
	s := newTestSession(3)

	assert.False(t, s.Next())
	assert.False(t, s.Next())
	assert.Equal(t, 2, s.CurrentQuestion)

	assert.True(t, s.Next())
	assert.Equal(t, 2, s.CurrentQuestion, "cursor must not move past the last question")
}

func TestPreviousMovesBack(t *testing.T) {
	s := newTestSession(3)
	s.Next()

	require.NoError(t, s.Previous())
	assert.Equal(t, 0, s.CurrentQuestion)
}

func TestJump(t *testing.T) {
	tests := []struct {
		name    string
		target  int
		wantErr bool
	}{
		{"first", 0, false},
		{"last", 4, false},
		{"negative", -1, true},
		{"past end", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(5)
			s.CurrentQuestion = 2

			err := s.Jump(tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidQuestionIndex)
				assert.Equal(t, 2, s.CurrentQuestion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, s.CurrentQuestion)
		})
	}
}

func TestRecordAnswerOverwritesWithoutMovingCursor(t *testing.T) {
	s := newTestSession(3)

	require.NoError(t, s.RecordAnswer(2, "first"))
	require.NoError(t, s.RecordAnswer(2, "second"))

	assert.Equal(t, "second", s.UserAnswers.For(2))
	assert.Equal(t, "second", s.UserAnswers["2"])
	assert.Equal(t, 0, s.CurrentQuestion)
	assert.Equal(t, "", s.UserAnswers.For(1))
}

func TestRecordAnswerRejectsOutOfRange(t *testing.T) {
	s := newTestSession(2)

	assert.ErrorIs(t, s.RecordAnswer(2, "x"), core.ErrInvalidQuestionIndex)
	assert.Empty(t, s.UserAnswers)
}

func TestUserStatePhase(t *testing.T) {
	setup := &SetupDescriptor{JobRole: "Software Engineer"}

	var nilState *UserState
	assert.Equal(t, PhaseNoSetup, nilState.Phase())
	assert.Equal(t, PhaseNoSetup, (&UserState{}).Phase())
	assert.Equal(t, PhaseLoading, (&UserState{Setup: setup}).Phase())
	assert.Equal(t, PhaseInProgress, (&UserState{Setup: setup, InterviewID: "i"}).Phase())
	assert.Equal(t, PhaseCompleted, (&UserState{Setup: setup, ReportID: "r"}).Phase())
}

func TestQuestionValid(t *testing.T) {
	mcq := Question{Text: "t", Type: QuestionMCQ, Category: "c", Options: []string{"A. x"}, CorrectAnswer: "A"}
	assert.True(t, mcq.Valid())
	assert.False(t, Question{Text: "t", Type: QuestionMCQ, Category: "c"}.Valid())
	assert.True(t, mcq.AsShort().Valid())
	assert.False(t, Question{Text: "t", Type: "essay", Category: "c"}.Valid())
}
