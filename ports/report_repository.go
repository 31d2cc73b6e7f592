package ports

import (
	"context"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
)

// ReportRepository persists immutable interview reports owned by a user.
type ReportRepository interface {
	Save(ctx context.Context, report *interview.Report) error
	// Get returns core.ErrReportNotFound when the report is missing or owned by someone else.
	Get(ctx context.Context, userID core.UserID, id core.ReportID) (*interview.Report, error)
	// List returns the user's reports in no particular order.
	List(ctx context.Context, userID core.UserID) ([]*interview.Report, error)
	// Delete returns core.ErrReportNotFound when the user does not own the report.
	Delete(ctx context.Context, userID core.UserID, id core.ReportID) error
}
