package migration

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/ports"
)

const legacyReportsSuffix = "_reports.json"

// Naive timestamps in legacy files carry no zone and are read as UTC.
var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ImportSummary counts what one import run did.
type ImportSummary struct {
	Files      int `json:"files"`
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Orphaned   int `json:"orphaned"`
	Invalid    int `json:"invalid"`
}

// LegacyImporter copies reports from per-user JSON files into a report
// repository. Runs are idempotent: reports already present are skipped.
type LegacyImporter struct {
	users   ports.UserRepository
	reports ports.ReportRepository
	log     *zap.Logger
}

// NewLegacyImporter creates an importer writing into reports. Reports whose
// owner is unknown to users are skipped.
func NewLegacyImporter(users ports.UserRepository, reports ports.ReportRepository, log *zap.Logger) *LegacyImporter {
	return &LegacyImporter{users: users, reports: reports, log: log.Named("legacy_import")}
}

// ImportDir imports every <user>_reports.json file in dir.
func (i *LegacyImporter) ImportDir(ctx context.Context, dir string) (ImportSummary, error) {
	var summary ImportSummary
	files, err := filepath.Glob(filepath.Join(dir, "*"+legacyReportsSuffix))
	if err != nil {
		return summary, err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Files++
		if err := i.importFile(ctx, file, &summary); err != nil {
			return summary, fmt.Errorf("import %s: %w", filepath.Base(file), err)
		}
	}
	i.log.Info("legacy import finished",
		zap.Int("files", summary.Files),
		zap.Int("imported", summary.Imported),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("orphaned", summary.Orphaned),
		zap.Int("invalid", summary.Invalid))
	return summary, nil
}

func (i *LegacyImporter) importFile(ctx context.Context, file string, summary *ImportSummary) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	owner := core.UserID(strings.TrimSuffix(filepath.Base(file), legacyReportsSuffix))

	reports, invalid := ParseLegacyReports(raw, owner)
	summary.Invalid += invalid
	if invalid > 0 {
		i.log.Warn("skipped malformed legacy reports", zap.String("file", file), zap.Int("count", invalid))
	}
	if len(reports) == 0 {
		return nil
	}

	known := map[core.UserID]bool{}
	for _, report := range reports {
		ok, seen := known[report.UserID]
		if !seen {
			_, err := i.users.GetUserByID(ctx, report.UserID)
			if err != nil && !core.IsNotFoundError(err) {
				return err
			}
			ok = err == nil
			known[report.UserID] = ok
			if !ok {
				i.log.Warn("no account for legacy reports", zap.String("user_id", report.UserID.String()), zap.String("file", file))
			}
		}
		if !ok {
			summary.Orphaned++
			continue
		}

		_, err := i.reports.Get(ctx, report.UserID, report.ID)
		if err == nil {
			summary.Duplicates++
			continue
		}
		if !stderrors.Is(err, core.ErrReportNotFound) {
			return err
		}
		if err := i.reports.Save(ctx, report); err != nil {
			return err
		}
		summary.Imported++
	}
	return nil
}

// ParseLegacyReports decodes a legacy reports file. Entries without a usable
// id or timestamp are counted as invalid and left out. owner is used when an
// entry does not name its user.
func ParseLegacyReports(raw []byte, owner core.UserID) ([]*interview.Report, int) {
	if !gjson.ValidBytes(raw) {
		return nil, 1
	}
	root := gjson.ParseBytes(raw)
	if !root.IsArray() {
		return nil, 1
	}

	var out []*interview.Report
	invalid := 0
	root.ForEach(func(_, entry gjson.Result) bool {
		report, err := legacyReport(entry, owner)
		if err != nil {
			invalid++
			return true
		}
		out = append(out, report)
		return true
	})
	return out, invalid
}

func legacyReport(entry gjson.Result, owner core.UserID) (*interview.Report, error) {
	id, err := core.ParseReportID(entry.Get("id").String())
	if err != nil {
		return nil, err
	}
	createdAt, err := parseLegacyTime(entry.Get("created_at").String())
	if err != nil {
		return nil, err
	}

	userID := owner
	if u := strings.TrimSpace(entry.Get("user_id").String()); u != "" {
		userID = core.UserID(u)
	}

	setup := entry.Get("setup")
	report := &interview.Report{
		ID:        id,
		UserID:    userID,
		CreatedAt: createdAt,
		Setup: interview.SetupDescriptor{
			JobRole:       setup.Get("job_role").String(),
			Domain:        setup.Get("domain").String(),
			InterviewType: interview.InterviewType(setup.Get("interview_type").String()),
			QuestionCount: int(setup.Get("question_count").Int()),
			QuestionType:  interview.QuestionFormat(setup.Get("question_type").String()),
			Difficulty:    setup.Get("difficulty").String(),
		},
		Answers: interview.Answers{},
	}

	if q := entry.Get("questions"); q.Exists() {
		if err := json.Unmarshal([]byte(q.Raw), &report.Questions); err != nil {
			return nil, err
		}
	}
	entry.Get("answers").ForEach(func(k, v gjson.Result) bool {
		report.Answers[k.String()] = v.String()
		return true
	})
	if r := entry.Get("results"); r.Exists() {
		if err := json.Unmarshal([]byte(r.Raw), &report.Results); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func parseLegacyTime(s string) (time.Time, error) {
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
