package ports

import (
	"context"

	"interviewbuddy/domain/interview"
)

// AnswerEvaluator scores one answer. It never fails: upstream and parse
// problems degrade to a fallback result.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, q interview.Question, answer string, setup interview.SetupDescriptor) interview.QuestionResult
}
