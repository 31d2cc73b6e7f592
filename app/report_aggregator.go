package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"interviewbuddy/domain/coaching"
	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/internal/errors"
	"interviewbuddy/ports"
)

// MaxReportResources caps the deduplicated resource list of a report.
const MaxReportResources = 8

const defaultEvaluationWorkers = 4

// ReportAggregator evaluates every answer of an interview and reduces the
// results into an immutable report.
type ReportAggregator struct {
	evaluator ports.AnswerEvaluator
	repo      ports.ReportRepository
	workers   int
	now       func() time.Time
	log       *zap.Logger
}

// NewReportAggregator creates an aggregator. workers bounds concurrent evaluations.
func NewReportAggregator(evaluator ports.AnswerEvaluator, repo ports.ReportRepository, workers int, log *zap.Logger) *ReportAggregator {
	if workers <= 0 {
		workers = defaultEvaluationWorkers
	}
	return &ReportAggregator{
		evaluator: evaluator,
		repo:      repo,
		workers:   workers,
		now:       time.Now,
		log:       log.Named("aggregator"),
	}
}

// Aggregate evaluates each question against its answer (missing answers count
// as empty) and computes the report results. Results keep question order. It
// only fails when ctx is cancelled.
func (a *ReportAggregator) Aggregate(ctx context.Context, questions []interview.Question, answers interview.Answers, setup interview.SetupDescriptor) (interview.Results, error) {
	results := make([]interview.QuestionResult, len(questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, q := range questions {
		i, q := i, q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.evaluator.Evaluate(gctx, q, answers.For(i), setup)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return interview.Results{}, err
	}

	return Reduce(results, setup), nil
}

// Reduce computes the aggregate fields from ordered per-question results.
func Reduce(results []interview.QuestionResult, setup interview.SetupDescriptor) interview.Results {
	if results == nil {
		results = []interview.QuestionResult{}
	}

	var total float64
	order := []string{}
	sums := map[string]float64{}
	counts := map[string]int{}
	resources := []string{}
	seen := map[string]bool{}

	for _, r := range results {
		total += float64(r.Score)
		if _, ok := counts[r.Category]; !ok {
			order = append(order, r.Category)
		}
		sums[r.Category] += float64(r.Score)
		counts[r.Category]++

		for _, res := range r.SuggestedResources {
			if seen[res] {
				continue
			}
			seen[res] = true
			resources = append(resources, res)
		}
	}

	overall := 0.0
	if len(results) > 0 {
		overall = round1(total / float64(len(results)))
	}

	categoryScores := make(map[string]float64, len(order))
	for _, c := range order {
		categoryScores[c] = round1(sums[c] / float64(counts[c]))
	}

	strengths, weaknesses := coaching.AnalyzePerformance(order, categoryScores)
	if len(resources) > MaxReportResources {
		resources = resources[:MaxReportResources]
	}

	return interview.Results{
		QuestionsResults:   results,
		OverallScore:       overall,
		CategoryScores:     categoryScores,
		Strengths:          strengths,
		Weaknesses:         weaknesses,
		Recommendations:    coaching.Recommendations(weaknesses, setup),
		SuggestedResources: resources,
	}
}

// Complete aggregates a session and persists the report. The report id is
// returned only after the write succeeded.
func (a *ReportAggregator) Complete(ctx context.Context, session *interview.InterviewSession) (*interview.Report, error) {
	if session.Total() == 0 {
		return nil, core.ErrQuestionsNotFound
	}

	start := a.now()
	results, err := a.Aggregate(ctx, session.Questions, session.UserAnswers, session.Setup)
	if err != nil {
		return nil, fmt.Errorf("evaluate answers: %w", err)
	}

	answers := session.UserAnswers
	if answers == nil {
		answers = interview.Answers{}
	}
	report := &interview.Report{
		ID:        core.NewReportID(),
		UserID:    session.UserID,
		CreatedAt: a.now().UTC(),
		Setup:     session.Setup,
		Questions: session.Questions,
		Answers:   answers,
		Results:   results,
	}
	if err := a.repo.Save(ctx, report); err != nil {
		return nil, errors.DatabaseError("failed to save report", err)
	}

	a.log.Info("report saved",
		zap.String("report_id", report.ID.String()),
		zap.String("user_id", report.UserID.String()),
		zap.Float64("overall_score", results.OverallScore),
		zap.Int("questions", len(results.QuestionsResults)),
		zap.Duration("elapsed", a.now().Sub(start)))
	return report, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
