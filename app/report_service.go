package app

import (
	"context"
	"io"
	"sort"

	"go.uber.org/zap"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/internal/errors"
	"interviewbuddy/ports"
)

// RecentReportsLimit is how many reports the dashboard shows.
const RecentReportsLimit = 5

// ReportExporter renders a report as a downloadable file.
type ReportExporter interface {
	Export(w io.Writer, report *interview.Report) error
	FileName(report *interview.Report) string
}

// ReportService reads and manages a user's saved reports.
type ReportService struct {
	repo     ports.ReportRepository
	exporter ReportExporter
	log      *zap.Logger
}

// NewReportService creates a report service
func NewReportService(repo ports.ReportRepository, exporter ReportExporter, log *zap.Logger) *ReportService {
	return &ReportService{repo: repo, exporter: exporter, log: log.Named("reports")}
}

// List returns the user's reports, newest first.
func (s *ReportService) List(ctx context.Context, userID core.UserID) ([]*interview.Report, error) {
	reports, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("failed to list reports", err)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

// Recent returns summaries of the newest reports.
func (s *ReportService) Recent(ctx context.Context, userID core.UserID, limit int) ([]interview.ReportSummary, error) {
	if limit <= 0 {
		limit = RecentReportsLimit
	}
	reports, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(reports) > limit {
		reports = reports[:limit]
	}
	out := make([]interview.ReportSummary, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Summary())
	}
	return out, nil
}

// Get returns one report owned by the user.
func (s *ReportService) Get(ctx context.Context, userID core.UserID, id core.ReportID) (*interview.Report, error) {
	report, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, err
		}
		return nil, errors.DatabaseError("failed to load report", err)
	}
	return report, nil
}

// Delete removes one report owned by the user.
func (s *ReportService) Delete(ctx context.Context, userID core.UserID, id core.ReportID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if core.IsNotFoundError(err) {
			return err
		}
		return errors.DatabaseError("failed to delete report", err)
	}
	s.log.Info("report deleted", zap.String("report_id", id.String()), zap.String("user_id", userID.String()))
	return nil
}

// Export writes one report through the configured exporter and returns its file name.
func (s *ReportService) Export(ctx context.Context, userID core.UserID, id core.ReportID, w io.Writer) (string, error) {
	report, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if err := s.exporter.Export(w, report); err != nil {
		return "", errors.Wrap(err, "failed to export report")
	}
	return s.exporter.FileName(report), nil
}
