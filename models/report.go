package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
)

// JSONB stores any JSON-encodable value in a PostgreSQL JSONB column.
type JSONB[T any] struct {
	V T
}

// Value implements driver.Valuer interface
func (j JSONB[T]) Value() (driver.Value, error) {
	return json.Marshal(j.V)
}

// Scan implements sql.Scanner interface
func (j *JSONB[T]) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		var zero T
		j.V = zero
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONB", value)
	}
	if len(bytes) == 0 {
		var zero T
		j.V = zero
		return nil
	}
	return json.Unmarshal(bytes, &j.V)
}

// ReportRow is the reports table layout. Scalar columns duplicate the setup
// so list queries and statistics do not decode the documents.
type ReportRow struct {
	ID            string                           `db:"id"`
	UserID        string                           `db:"user_id"`
	CreatedAt     time.Time                        `db:"created_at"`
	JobRole       string                           `db:"job_role"`
	Domain        string                           `db:"domain"`
	InterviewType string                           `db:"interview_type"`
	OverallScore  float64                          `db:"overall_score"`
	Setup         JSONB[interview.SetupDescriptor] `db:"setup"`
	Questions     JSONB[[]interview.Question]      `db:"questions"`
	Answers       JSONB[interview.Answers]         `db:"answers"`
	Results       JSONB[interview.Results]         `db:"results"`
}

// NewReportRow flattens a report for insertion.
func NewReportRow(r *interview.Report) ReportRow {
	return ReportRow{
		ID:            r.ID.String(),
		UserID:        r.UserID.String(),
		CreatedAt:     r.CreatedAt,
		JobRole:       r.Setup.JobRole,
		Domain:        r.Setup.Domain,
		InterviewType: string(r.Setup.InterviewType),
		OverallScore:  r.Results.OverallScore,
		Setup:         JSONB[interview.SetupDescriptor]{V: r.Setup},
		Questions:     JSONB[[]interview.Question]{V: r.Questions},
		Answers:       JSONB[interview.Answers]{V: r.Answers},
		Results:       JSONB[interview.Results]{V: r.Results},
	}
}

// Report rebuilds the domain report.
func (row ReportRow) Report() *interview.Report {
	answers := row.Answers.V
	if answers == nil {
		answers = interview.Answers{}
	}
	return &interview.Report{
		ID:        core.ReportID(row.ID),
		UserID:    core.UserID(row.UserID),
		CreatedAt: row.CreatedAt,
		Setup:     row.Setup.V,
		Questions: row.Questions.V,
		Answers:   answers,
		Results:   row.Results.V,
	}
}
