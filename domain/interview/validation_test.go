package interview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"interviewbuddy/domain/core"
)

func validSetup() SetupDescriptor {
	return SetupDescriptor{
		JobRole:       "Software Engineer",
		Domain:        "Backend",
		InterviewType: InterviewTechnical,
		QuestionCount: 5,
		QuestionType:  FormatMCQ,
		Difficulty:    "Medium",
	}
}

func TestValidateSetup(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SetupDescriptor)
		ok     bool
	}{
		{"valid", func(s *SetupDescriptor) {}, true},
		{"sub-area domain", func(s *SetupDescriptor) { s.Domain = "PostgreSQL" }, true},
		{"max count", func(s *SetupDescriptor) { s.QuestionCount = MaxQuestions }, true},
		{"unknown role", func(s *SetupDescriptor) { s.JobRole = "Astronaut" }, false},
		{"unknown domain", func(s *SetupDescriptor) { s.Domain = "Cobol" }, false},
		{"missing type", func(s *SetupDescriptor) { s.InterviewType = "" }, false},
		{"lowercase type", func(s *SetupDescriptor) { s.InterviewType = "technical" }, false},
		{"bad format", func(s *SetupDescriptor) { s.QuestionType = "Essay" }, false},
		{"count too small", func(s *SetupDescriptor) { s.QuestionCount = 4 }, false},
		{"count too large", func(s *SetupDescriptor) { s.QuestionCount = 21 }, false},
		{"count missing", func(s *SetupDescriptor) { s.QuestionCount = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSetup()
			tt.mutate(&s)
			err := ValidateSetup(s)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, core.ErrInvalidSetup)
			}
		})
	}
}

func TestNormalizedForcesShortAnswersForBehavioral(t *testing.T) {
	s := validSetup()
	s.InterviewType = InterviewBehavioral
	s.Difficulty = ""

	n := s.Normalized()

	assert.Equal(t, FormatShortAnswer, n.QuestionType)
	assert.Equal(t, DefaultDifficulty, n.Difficulty)
	assert.Equal(t, FormatMCQ, s.QuestionType, "original is not modified")
}

func TestValidateCredentials(t *testing.T) {
	assert.True(t, ValidateEmail("jane.doe+mock@example.co"))
	assert.False(t, ValidateEmail("jane@localhost"))
	assert.False(t, ValidateEmail(""))

	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("1234567"))

	assert.True(t, ValidateName("Ada Lovelace"))
	assert.True(t, ValidateName("Zoë"))
	assert.False(t, ValidateName("A"))
	assert.False(t, ValidateName("R2D2"))
}

func TestValidateAnswer(t *testing.T) {
	assert.NoError(t, ValidateAnswer(QuestionMCQ, "b"))
	assert.Error(t, ValidateAnswer(QuestionMCQ, "E"))
	assert.Error(t, ValidateAnswer(QuestionMCQ, "  "))
	assert.NoError(t, ValidateAnswer(QuestionShort, "a long enough answer"))
	assert.ErrorIs(t, ValidateAnswer(QuestionShort, "short"), core.ErrInvalidAnswer)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello world", Sanitize("<b>hello</b> world<script>alert(1)</script>"))
	assert.Equal(t, "a < b", Sanitize("a < b"))
	assert.Equal(t, "", Sanitize(""))

	long := strings.Repeat("x", 1500)
	assert.Len(t, Sanitize(long), 1000)
}
