package filestore

import (
	"context"
	"errors"
	"os"
	"sync"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/ports"
)

// ReportRepository implements ports.ReportRepository with one JSON array per
// user at <dir>/<user id>_reports.json. It serialises writers in-process only.
type ReportRepository struct {
	dir dir
	mu  sync.Mutex
}

// NewReportRepository creates the report directory if needed.
func NewReportRepository(basePath string) (*ReportRepository, error) {
	d, err := newDir(basePath)
	if err != nil {
		return nil, err
	}
	return &ReportRepository{dir: d}, nil
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

// ReportsFileName is the per-user file name, shared with the legacy importer.
func ReportsFileName(userID core.UserID) string {
	return userID.String() + "_reports.json"
}

func (r *ReportRepository) load(userID core.UserID) ([]*interview.Report, error) {
	if !safeName(userID.String()) {
		return nil, core.NewValidationError("user_id", "not usable as a file name")
	}
	reports := []*interview.Report{}
	if err := r.dir.readJSON(ReportsFileName(userID), &reports); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*interview.Report{}, nil
		}
		return nil, err
	}
	return reports, nil
}

// Save appends a report to its owner's file.
func (r *ReportRepository) Save(ctx context.Context, report *interview.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := r.load(report.UserID)
	if err != nil {
		return err
	}
	reports = append(reports, report)
	return r.dir.writeJSON(ReportsFileName(report.UserID), reports)
}

// Get returns one report owned by userID.
func (r *ReportRepository) Get(ctx context.Context, userID core.UserID, id core.ReportID) (*interview.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	for _, rep := range reports {
		if rep.ID == id {
			return rep, nil
		}
	}
	return nil, core.ErrReportNotFound
}

// List returns every report owned by userID in file order.
func (r *ReportRepository) List(ctx context.Context, userID core.UserID) ([]*interview.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(userID)
}

// Delete removes one report owned by userID.
func (r *ReportRepository) Delete(ctx context.Context, userID core.UserID, id core.ReportID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := r.load(userID)
	if err != nil {
		return err
	}
	kept := reports[:0]
	found := false
	for _, rep := range reports {
		if rep.ID == id {
			found = true
			continue
		}
		kept = append(kept, rep)
	}
	if !found {
		return core.ErrReportNotFound
	}
	return r.dir.writeJSON(ReportsFileName(userID), kept)
}
