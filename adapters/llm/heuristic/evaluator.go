package heuristic

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"interviewbuddy/domain/coaching"
	"interviewbuddy/domain/interview"
)

// Evaluator tiers recorded on QuestionResult.Evaluator.
const (
	TierRule      = "rule"
	TierHeuristic = "heuristic"
)

const (
	briefAnswerLimit    = 20
	moderateAnswerLimit = 100
)

// Evaluator scores answers without a generative provider: exact matching for
// multiple choice and answer length for short answers.
type Evaluator struct{}

// NewEvaluator creates a rule-based evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate implements ports.AnswerEvaluator.
func (e *Evaluator) Evaluate(ctx context.Context, q interview.Question, answer string, setup interview.SetupDescriptor) interview.QuestionResult {
	if q.IsMCQ() {
		return EvaluateMCQ(q, answer, setup)
	}
	if strings.TrimSpace(answer) == "" {
		return NoAnswer(q, answer, setup)
	}
	return ByLength(q, answer, setup)
}

// baseResult fills the fields every tier shares.
func baseResult(q interview.Question, answer string) interview.QuestionResult {
	return interview.QuestionResult{
		Question:           q.Text,
		UserAnswer:         answer,
		CorrectAnswer:      q.CorrectAnswer,
		Category:           q.CategoryOrDefault(),
		SuggestedResources: []string{},
	}
}

// EvaluateMCQ awards full marks only for an exact, case-sensitive match.
func EvaluateMCQ(q interview.Question, answer string, setup interview.SetupDescriptor) interview.QuestionResult {
	r := baseResult(q, answer)
	r.Evaluator = TierRule
	if answer == q.CorrectAnswer {
		r.Score = interview.MCQMaxScore
		r.Feedback = "Correct! Well done."
		r.DetailedAnalysis.Correctness = interview.DimensionScore{Score: 10, Feedback: "Answer is technically correct."}
		return r
	}
	r.Score = 0
	r.Feedback = fmt.Sprintf("Incorrect. The correct answer is %s.", q.CorrectAnswer)
	r.DetailedAnalysis.Correctness = interview.DimensionScore{
		Score:    0,
		Feedback: fmt.Sprintf("Selected wrong option. The correct answer is %s.", q.CorrectAnswer),
	}
	r.SuggestedResources = coaching.ResourcesFor(r.Category, setup)
	return r
}

// NoAnswer scores a blank short answer.
func NoAnswer(q interview.Question, answer string, setup interview.SetupDescriptor) interview.QuestionResult {
	r := baseResult(q, answer)
	r.Evaluator = TierRule
	r.Score = 0
	r.Feedback = "No answer provided."
	empty := interview.DimensionScore{Score: 0, Feedback: "No answer to evaluate."}
	r.DetailedAnalysis = interview.DetailedAnalysis{Clarity: empty, Correctness: empty, Completeness: empty}
	r.SuggestedResources = coaching.ResourcesFor(r.Category, setup)
	return r
}

// ByLength grades a short answer on its trimmed length alone.
func ByLength(q interview.Question, answer string, setup interview.SetupDescriptor) interview.QuestionResult {
	r := baseResult(q, answer)
	r.Evaluator = TierHeuristic

	switch n := utf8.RuneCountInString(strings.TrimSpace(answer)); {
	case n < briefAnswerLimit:
		r.Score = 2
		r.Feedback = "Answer is too brief. Provide more detailed explanation."
		r.DetailedAnalysis = interview.DetailedAnalysis{
			Clarity:      interview.DimensionScore{Score: 3, Feedback: "Answer is too short to assess clarity properly."},
			Correctness:  interview.DimensionScore{Score: 2, Feedback: "Insufficient content to evaluate accuracy."},
			Completeness: interview.DimensionScore{Score: 1, Feedback: "Answer lacks sufficient detail and examples."},
		}
	case n < moderateAnswerLimit:
		r.Score = 5
		r.Feedback = "Good start, but could be more comprehensive."
		r.DetailedAnalysis = interview.DetailedAnalysis{
			Clarity:      interview.DimensionScore{Score: 6, Feedback: "Clear but could be more detailed."},
			Correctness:  interview.DimensionScore{Score: 5, Feedback: "Generally on track but needs more depth."},
			Completeness: interview.DimensionScore{Score: 4, Feedback: "Missing important details and examples."},
		}
	default:
		r.Score = 7
		r.Feedback = "Good detailed answer with room for improvement."
		r.DetailedAnalysis = interview.DetailedAnalysis{
			Clarity:      interview.DimensionScore{Score: 7, Feedback: "Well-structured and clear explanation."},
			Correctness:  interview.DimensionScore{Score: 7, Feedback: "Demonstrates good understanding."},
			Completeness: interview.DimensionScore{Score: 6, Feedback: "Comprehensive with minor gaps."},
		}
	}
	r.SuggestedResources = coaching.ResourcesFor(r.Category, setup)
	return r
}
