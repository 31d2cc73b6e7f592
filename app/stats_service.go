package app

import (
	"context"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
)

const (
	progressMonths    = 6
	recentScoresLimit = 10
	noDomain          = "N/A"
)

// UserStats is the dashboard summary. Average and best are on a 0-100 scale.
type UserStats struct {
	TotalInterviews   int       `json:"total_interviews"`
	AverageScore      float64   `json:"average_score"`
	BestScore         float64   `json:"best_score"`
	QuestionsAnswered int       `json:"total_questions_answered"`
	FavoriteDomain    string    `json:"favorite_domain"`
	RecentPerformance []float64 `json:"recent_performance"`
}

// ScorePoint is one report on the progression chart.
type ScorePoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// MonthlyProgress aggregates the reports of one calendar month.
type MonthlyProgress struct {
	Month        string  `json:"month"`
	Interviews   int     `json:"interviews"`
	AverageScore float64 `json:"average_score"`
}

// DetailedStats feeds the statistics charts.
type DetailedStats struct {
	ScoreProgression    []ScorePoint       `json:"score_progression"`
	CategoryPerformance map[string]float64 `json:"category_performance"`
	DomainDistribution  map[string]int     `json:"domain_distribution"`
	MonthlyProgress     []MonthlyProgress  `json:"monthly_progress"`
	RecentScores        []float64          `json:"recent_scores"`
	ScoreSpread         float64            `json:"score_spread"`
	MedianScore         float64            `json:"median_score"`
}

// StatsService derives statistics from a user's saved reports.
type StatsService struct {
	reports *ReportService
	now     func() time.Time
}

// NewStatsService creates a stats service
func NewStatsService(reports *ReportService) *StatsService {
	return &StatsService{reports: reports, now: time.Now}
}

// UserStats summarises every report of the user.
func (s *StatsService) UserStats(ctx context.Context, userID core.UserID) (*UserStats, error) {
	reports, err := s.reports.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &UserStats{FavoriteDomain: noDomain, RecentPerformance: []float64{}}
	if len(reports) == 0 {
		return out, nil
	}

	scores := overallScores(reports)
	mean, _ := stats.Mean(scores)
	best, _ := stats.Max(scores)

	out.TotalInterviews = len(reports)
	out.AverageScore = round1(mean * 10)
	out.BestScore = round1(best * 10)
	for _, r := range reports {
		out.QuestionsAnswered += len(r.Questions)
	}
	out.FavoriteDomain = favoriteDomain(reports)
	out.RecentPerformance = firstN(scores, RecentReportsLimit)
	return out, nil
}

// DetailedStats returns chart data. Reports arrive newest first.
func (s *StatsService) DetailedStats(ctx context.Context, userID core.UserID) (*DetailedStats, error) {
	reports, err := s.reports.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &DetailedStats{
		ScoreProgression:    []ScorePoint{},
		CategoryPerformance: map[string]float64{},
		DomainDistribution:  map[string]int{},
		MonthlyProgress:     []MonthlyProgress{},
		RecentScores:        []float64{},
	}
	if len(reports) == 0 {
		return out, nil
	}

	for i := len(reports) - 1; i >= 0; i-- {
		r := reports[i]
		out.ScoreProgression = append(out.ScoreProgression, ScorePoint{
			Date:  r.CreatedAt.Format("2006-01-02"),
			Score: r.Results.OverallScore,
		})
	}

	byCategory := map[string][]float64{}
	for _, r := range reports {
		for c, v := range r.Results.CategoryScores {
			byCategory[c] = append(byCategory[c], v)
		}
		out.DomainDistribution[r.Setup.Domain]++
	}
	for c, vs := range byCategory {
		mean, _ := stats.Mean(vs)
		out.CategoryPerformance[c] = round1(mean)
	}

	scores := overallScores(reports)
	out.RecentScores = firstN(scores, recentScoresLimit)
	median, _ := stats.Median(scores)
	out.MedianScore = round1(median)
	if len(scores) > 1 {
		sd, _ := stats.StandardDeviation(scores)
		out.ScoreSpread = round1(sd)
	}
	out.MonthlyProgress = s.monthlyProgress(reports)
	return out, nil
}

// monthlyProgress covers the current month and the five before it, oldest first.
func (s *StatsService) monthlyProgress(reports []*interview.Report) []MonthlyProgress {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(progressMonths - 1), 0)

	buckets := map[string][]float64{}
	for _, r := range reports {
		created := r.CreatedAt.UTC()
		if created.Before(start) {
			continue
		}
		key := created.Format("2006-01")
		buckets[key] = append(buckets[key], r.Results.OverallScore)
	}

	out := make([]MonthlyProgress, 0, progressMonths)
	for i := 0; i < progressMonths; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		m := MonthlyProgress{Month: key, Interviews: len(buckets[key])}
		if m.Interviews > 0 {
			mean, _ := stats.Mean(buckets[key])
			m.AverageScore = round1(mean)
		}
		out = append(out, m)
	}
	return out
}

func overallScores(reports []*interview.Report) stats.Float64Data {
	out := make(stats.Float64Data, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Results.OverallScore)
	}
	return out
}

// favoriteDomain is the most frequent domain; ties go to the alphabetically first.
func favoriteDomain(reports []*interview.Report) string {
	counts := map[string]int{}
	for _, r := range reports {
		counts[r.Setup.Domain]++
	}
	names := make([]string, 0, len(counts))
	for d := range counts {
		names = append(names, d)
	}
	sort.Strings(names)

	best, bestCount := noDomain, 0
	for _, d := range names {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func firstN(xs []float64, n int) []float64 {
	if len(xs) > n {
		xs = xs[:n]
	}
	return append([]float64{}, xs...)
}
