package interview

import (
	"strings"
	"time"

	"interviewbuddy/domain/core"
)

// InterviewType selects the flavour of an interview.
type InterviewType string

const (
	InterviewTechnical  InterviewType = "Technical"
	InterviewBehavioral InterviewType = "Behavioral"
	InterviewMixed      InterviewType = "Mixed"
)

// IsBehavioral matches case-insensitively, the setup form posts free text.
func (t InterviewType) IsBehavioral() bool {
	return strings.EqualFold(string(t), string(InterviewBehavioral))
}

// QuestionFormat is the answer format requested at setup time.
type QuestionFormat string

const (
	FormatMCQ         QuestionFormat = "MCQ"
	FormatShortAnswer QuestionFormat = "Short Answer"
	FormatAIChoice    QuestionFormat = "AI Choice"
)

// QuestionType is the concrete type of a generated question.
type QuestionType string

const (
	QuestionMCQ   QuestionType = "mcq"
	QuestionShort QuestionType = "short"
)

// SetupDescriptor holds the parameters chosen for one interview. It is not
// modified once questions have been generated.
type SetupDescriptor struct {
	JobRole       string         `json:"job_role"`
	Domain        string         `json:"domain"`
	InterviewType InterviewType  `json:"interview_type"`
	QuestionCount int            `json:"question_count"`
	QuestionType  QuestionFormat `json:"question_type"`
	Difficulty    string         `json:"difficulty"`
}

// Normalized returns a copy with defaults applied and behavioral interviews forced
// to short answers.
func (s SetupDescriptor) Normalized() SetupDescriptor {
	out := s
	out.JobRole = strings.TrimSpace(out.JobRole)
	out.Domain = strings.TrimSpace(out.Domain)
	if strings.TrimSpace(out.Difficulty) == "" {
		out.Difficulty = DefaultDifficulty
	}
	if out.InterviewType.IsBehavioral() {
		out.QuestionType = FormatShortAnswer
	}
	return out
}

// Question is one interview question. Options and CorrectAnswer are set only
// for multiple-choice questions.
type Question struct {
	Text          string       `json:"text" yaml:"text"`
	Type          QuestionType `json:"type" yaml:"type"`
	Category      string       `json:"category" yaml:"category"`
	Difficulty    string       `json:"difficulty,omitempty" yaml:"difficulty"`
	Options       []string     `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty" yaml:"correct_answer,omitempty"`
}

// IsMCQ reports whether the question is multiple choice.
func (q Question) IsMCQ() bool {
	return q.Type == QuestionMCQ
}

// CategoryOrDefault returns the category label used for grouping scores.
func (q Question) CategoryOrDefault() string {
	if strings.TrimSpace(q.Category) == "" {
		return DefaultCategory
	}
	return q.Category
}

// AsShort strips the multiple-choice fields.
func (q Question) AsShort() Question {
	q.Type = QuestionShort
	q.Options = nil
	q.CorrectAnswer = ""
	return q
}

// Valid checks the structural invariant: mcq iff options and correct answer are present.
func (q Question) Valid() bool {
	if strings.TrimSpace(q.Text) == "" || strings.TrimSpace(q.Category) == "" {
		return false
	}
	switch q.Type {
	case QuestionMCQ:
		return len(q.Options) > 0 && q.CorrectAnswer != ""
	case QuestionShort:
		return len(q.Options) == 0 && q.CorrectAnswer == ""
	default:
		return false
	}
}

// Answers maps a question index (as a decimal string) to the submitted answer.
type Answers map[string]string

// For returns the answer for index i, empty when nothing was submitted.
func (a Answers) For(i int) string {
	if a == nil {
		return ""
	}
	return a[indexKey(i)]
}

// DimensionScore is one axis of the detailed analysis.
type DimensionScore struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// DetailedAnalysis splits a score into clarity, correctness and completeness.
type DetailedAnalysis struct {
	Clarity      DimensionScore `json:"clarity"`
	Correctness  DimensionScore `json:"correctness"`
	Completeness DimensionScore `json:"completeness"`
}

// QuestionResult is the evaluation of a single answer.
type QuestionResult struct {
	Question           string           `json:"question"`
	UserAnswer         string           `json:"user_answer"`
	CorrectAnswer      string           `json:"correct_answer"`
	Score              int              `json:"score"`
	Feedback           string           `json:"feedback"`
	Category           string           `json:"category"`
	DetailedAnalysis   DetailedAnalysis `json:"detailed_analysis"`
	SuggestedResources []string         `json:"suggested_resources"`
	// Evaluator records which tier produced the result: llm, parse_fallback, heuristic or rule.
	Evaluator string `json:"evaluator,omitempty"`
}

// Results is the aggregated outcome of an interview.
type Results struct {
	QuestionsResults   []QuestionResult   `json:"questions_results"`
	OverallScore       float64            `json:"overall_score"`
	CategoryScores     map[string]float64 `json:"category_scores"`
	Strengths          []string           `json:"strengths"`
	Weaknesses         []string           `json:"weaknesses"`
	Recommendations    []string           `json:"recommendations"`
	SuggestedResources []string           `json:"suggested_resources"`
}

// Report is the persisted, immutable record of a completed interview.
type Report struct {
	ID        core.ReportID   `json:"id"`
	UserID    core.UserID     `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	Setup     SetupDescriptor `json:"setup"`
	Questions []Question      `json:"questions"`
	Answers   Answers         `json:"answers"`
	Results   Results         `json:"results"`
}

// ReportSummary is the list-view projection of a report.
type ReportSummary struct {
	ID            core.ReportID `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	JobRole       string        `json:"job_role"`
	Domain        string        `json:"domain"`
	InterviewType InterviewType `json:"interview_type"`
	OverallScore  float64       `json:"overall_score"`
	QuestionCount int           `json:"question_count"`
}

// Summary projects a report for list views.
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		JobRole:       r.Setup.JobRole,
		Domain:        r.Setup.Domain,
		InterviewType: r.Setup.InterviewType,
		OverallScore:  r.Results.OverallScore,
		QuestionCount: len(r.Questions),
	}
}

// UserState is the per-user pointer record: the pending setup, the active
// interview and the last completed report.
type UserState struct {
	UserID      core.UserID      `json:"user_id"`
	Setup       *SetupDescriptor `json:"setup,omitempty"`
	InterviewID core.InterviewID `json:"interview_id,omitempty"`
	ReportID    core.ReportID    `json:"report_id,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Phase derives the lifecycle phase visible to the user.
func (s *UserState) Phase() Phase {
	switch {
	case s == nil:
		return PhaseNoSetup
	case !s.InterviewID.IsEmpty():
		return PhaseInProgress
	case !s.ReportID.IsEmpty():
		return PhaseCompleted
	case s.Setup != nil:
		return PhaseLoading
	default:
		return PhaseNoSetup
	}
}
