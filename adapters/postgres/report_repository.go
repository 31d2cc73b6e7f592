package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/models"
	"interviewbuddy/ports"
)

const reportColumns = `id, user_id, created_at, job_role, domain, interview_type, overall_score, setup, questions, answers, results`

// ReportRepositoryImpl implements ReportRepository for PostgreSQL. Documents
// live in JSONB columns next to the scalar columns used for listing.
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// Save inserts a report. Reports are immutable so there is no update path.
func (r *ReportRepositoryImpl) Save(ctx context.Context, report *interview.Report) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES (:id, :user_id, :created_at, :job_role, :domain, :interview_type, :overall_score, :setup, :questions, :answers, :results)
	`, models.NewReportRow(report))
	return err
}

// Get retrieves one report owned by userID
func (r *ReportRepositoryImpl) Get(ctx context.Context, userID core.UserID, id core.ReportID) (*interview.Report, error) {
	var row models.ReportRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE user_id = $1 AND id = $2
	`, userID.String(), id.String())
	if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
		return nil, core.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Report(), nil
}

// List returns a user's reports, newest first
func (r *ReportRepositoryImpl) List(ctx context.Context, userID core.UserID) ([]*interview.Report, error) {
	var rows []models.ReportRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID.String())
	if isInvalidUUID(err) {
		return []*interview.Report{}, nil
	}
	if err != nil {
		return nil, err
	}

	reports := make([]*interview.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.Report())
	}
	return reports, nil
}

// Delete removes one report owned by userID
func (r *ReportRepositoryImpl) Delete(ctx context.Context, userID core.UserID, id core.ReportID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE user_id = $1 AND id = $2`, userID.String(), id.String())
	if isInvalidUUID(err) {
		return core.ErrReportNotFound
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrReportNotFound
	}
	return nil
}

func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}
