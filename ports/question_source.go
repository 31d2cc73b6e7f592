package ports

import (
	"context"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
)

// QuestionSource produces the ordered question list for a setup. It returns
// exactly setup.QuestionCount questions whenever any source has them.
type QuestionSource interface {
	Generate(ctx context.Context, setup interview.SetupDescriptor) (*QuestionGeneration, error)
}

// DroppedQuestion records why a generated question was rejected.
type DroppedQuestion struct {
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// GenerationAudit is metadata about a generation call.
type GenerationAudit struct {
	GeneratorType string            `json:"generator_type"` // "llm" | "bank" | "fallback"
	Model         string            `json:"model,omitempty"`
	PromptHash    core.Hash         `json:"prompt_hash,omitempty"`
	ResponseHash  core.Hash         `json:"response_hash,omitempty"`
	Dropped       []DroppedQuestion `json:"dropped,omitempty"`
	ToppedUp      int               `json:"topped_up,omitempty"`
	FallbackCause string            `json:"fallback_cause,omitempty"`
}

// QuestionGeneration is the output of one generation: the questions shown to
// the candidate and the audit kept for debugging.
type QuestionGeneration struct {
	Questions []interview.Question `json:"questions"`
	Audit     GenerationAudit      `json:"audit"`
}
