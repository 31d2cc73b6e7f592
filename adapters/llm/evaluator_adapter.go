package llm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"interviewbuddy/adapters/llm/heuristic"
	"interviewbuddy/domain/interview"
	"interviewbuddy/ports"
)

// Evaluator tiers recorded on QuestionResult.Evaluator.
const (
	TierLLM           = "llm"
	TierParseFallback = "parse_fallback"
)

// EvaluatorAdapter implements ports.AnswerEvaluator with a generative provider.
// Multiple choice and blank answers never reach the provider. Upstream errors
// fall back to the length heuristic; unparseable responses degrade to a
// neutral score that keeps the raw text as feedback.
type EvaluatorAdapter struct {
	llmClient ports.LLMClient
	log       *zap.Logger
}

// NewEvaluatorAdapter creates an evaluator. A nil client scores every short
// answer with the length heuristic.
func NewEvaluatorAdapter(client ports.LLMClient, log *zap.Logger) *EvaluatorAdapter {
	return &EvaluatorAdapter{llmClient: client, log: log.Named("evaluator")}
}

// Evaluate implements ports.AnswerEvaluator
func (e *EvaluatorAdapter) Evaluate(ctx context.Context, q interview.Question, answer string, setup interview.SetupDescriptor) interview.QuestionResult {
	if q.IsMCQ() {
		return heuristic.EvaluateMCQ(q, answer, setup)
	}
	if strings.TrimSpace(answer) == "" {
		return heuristic.NoAnswer(q, answer, setup)
	}
	if e.llmClient == nil {
		return heuristic.ByLength(q, answer, setup)
	}

	response, err := e.llmClient.Generate(ctx, BuildEvaluationPrompt(q, answer, setup))
	if err != nil {
		e.log.Warn("evaluation call failed, using length heuristic",
			zap.String("category", q.CategoryOrDefault()),
			zap.Error(err))
		return heuristic.ByLength(q, answer, setup)
	}

	tier := TierLLM
	eval, err := ParseEvaluation(response)
	if err != nil {
		e.log.Warn("evaluation response unparseable, using degraded result",
			zap.String("category", q.CategoryOrDefault()),
			zap.Error(err))
		eval = DegradedEvaluation(response)
		tier = TierParseFallback
	}

	return interview.QuestionResult{
		Question:           q.Text,
		UserAnswer:         answer,
		CorrectAnswer:      q.CorrectAnswer,
		Score:              eval.Score,
		Feedback:           eval.Feedback,
		Category:           q.CategoryOrDefault(),
		DetailedAnalysis:   eval.Analysis,
		SuggestedResources: eval.Resources,
		Evaluator:          tier,
	}
}
