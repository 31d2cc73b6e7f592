package interview

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"interviewbuddy/domain/core"
)

const (
	minPasswordLength    = 8
	minNameLength        = 2
	minShortAnswerLength = 10
	maxInputLength       = 1000
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks the address format.
func ValidateEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= minPasswordLength
}

// ValidateName accepts letters and spaces, at least two characters after trimming.
func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minNameLength {
		return false
	}
	for _, r := range strings.ReplaceAll(name, " ", "") {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ValidateSetup checks a setup descriptor against the catalog. It returns an
// error wrapping core.ErrInvalidSetup that names the offending field.
func ValidateSetup(s SetupDescriptor) error {
	switch {
	case strings.TrimSpace(s.JobRole) == "":
		return core.NewSetupError("job_role", "is required")
	case strings.TrimSpace(s.Domain) == "":
		return core.NewSetupError("domain", "is required")
	case s.InterviewType == "":
		return core.NewSetupError("interview_type", "is required")
	case s.QuestionType == "":
		return core.NewSetupError("question_type", "is required")
	case s.QuestionCount == 0:
		return core.NewSetupError("question_count", "is required")
	}

	if !knownJobRole(s.JobRole) {
		return core.NewSetupError("job_role", fmt.Sprintf("%q is not offered", s.JobRole))
	}
	if !knownDomain(s.Domain) {
		return core.NewSetupError("domain", fmt.Sprintf("%q is not offered", s.Domain))
	}
	if !containsType(InterviewTypes, s.InterviewType) {
		return core.NewSetupError("interview_type", fmt.Sprintf("%q is not offered", s.InterviewType))
	}
	if !containsFormat(QuestionFormats, s.QuestionType) {
		return core.NewSetupError("question_type", fmt.Sprintf("%q is not offered", s.QuestionType))
	}
	if s.QuestionCount < MinQuestions || s.QuestionCount > MaxQuestions {
		return core.NewSetupError("question_count", fmt.Sprintf("must be between %d and %d", MinQuestions, MaxQuestions))
	}
	return nil
}

// ValidateAnswer checks the shape of a submitted answer: a letter A-D for
// multiple choice, at least ten characters for short answers.
func ValidateAnswer(qt QuestionType, answer string) error {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return fmt.Errorf("%w: answer is empty", core.ErrInvalidAnswer)
	}
	switch qt {
	case QuestionMCQ:
		switch strings.ToUpper(answer) {
		case "A", "B", "C", "D":
			return nil
		}
		return fmt.Errorf("%w: choose one of A, B, C or D", core.ErrInvalidAnswer)
	case QuestionShort:
		if utf8.RuneCountInString(trimmed) < minShortAnswerLength {
			return fmt.Errorf("%w: answer must be at least %d characters", core.ErrInvalidAnswer, minShortAnswerLength)
		}
	}
	return nil
}

// Sanitize strips markup and script content from free text and caps its length.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	if strings.ContainsAny(text, "<>") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err == nil {
			doc.Find("script, style").Remove()
			text = doc.Text()
		}
	}
	if utf8.RuneCountInString(text) > maxInputLength {
		text = string([]rune(text)[:maxInputLength])
	}
	return strings.TrimSpace(text)
}

func containsType(list []InterviewType, v InterviewType) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsFormat(list []QuestionFormat, v QuestionFormat) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
