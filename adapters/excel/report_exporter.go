// Package excel renders interview reports as xlsx workbooks.
package excel

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"interviewbuddy/domain/interview"
)

// Sheet names in the exported workbook.
const (
	SheetSummary    = "Summary"
	SheetQuestions  = "Questions"
	SheetCategories = "Categories"
)

var questionHeader = []interface{}{
	"#", "Question", "Type", "Category", "Your Answer", "Correct Answer", "Score",
	"Clarity", "Correctness", "Completeness", "Feedback", "Resources",
}

// ReportExporter writes a report as a three-sheet workbook.
type ReportExporter struct{}

// NewReportExporter creates an exporter
func NewReportExporter() *ReportExporter {
	return &ReportExporter{}
}

// FileName is the download name for a report.
func (e *ReportExporter) FileName(report *interview.Report) string {
	return fmt.Sprintf("interview_report_%s.xlsx", report.ID)
}

// Export writes the workbook to w.
func (e *ReportExporter) Export(w io.Writer, report *interview.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetQuestions, SheetCategories} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeSummary(f, report, bold); err != nil {
		return err
	}
	if err := writeQuestions(f, report, bold); err != nil {
		return err
	}
	if err := writeCategories(f, report, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, report *interview.Report, bold int) error {
	res := report.Results
	rows := [][]interface{}{
		{"Report ID", report.ID.String()},
		{"Date", report.CreatedAt.Format("2006-01-02 15:04")},
		{"Job Role", report.Setup.JobRole},
		{"Domain", report.Setup.Domain},
		{"Interview Type", string(report.Setup.InterviewType)},
		{"Difficulty", report.Setup.Difficulty},
		{"Questions", len(report.Questions)},
		{"Overall Score", res.OverallScore},
		{},
	}
	rows = appendList(rows, "Strengths", res.Strengths)
	rows = appendList(rows, "Weaknesses", res.Weaknesses)
	rows = appendList(rows, "Recommendations", res.Recommendations)
	rows = appendList(rows, "Suggested Resources", res.SuggestedResources)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 30)
}

// appendList lays a titled list out as one label row followed by value rows.
func appendList(rows [][]interface{}, title string, items []string) [][]interface{} {
	if len(items) == 0 {
		return append(rows, []interface{}{title, "None"}, []interface{}{})
	}
	for i, item := range items {
		label := ""
		if i == 0 {
			label = title
		}
		rows = append(rows, []interface{}{label, item})
	}
	return append(rows, []interface{}{})
}

func writeQuestions(f *excelize.File, report *interview.Report, bold int) error {
	if err := setRow(f, SheetQuestions, 1, questionHeader); err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(questionHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetQuestions, "A1", end, bold); err != nil {
		return err
	}

	for i, r := range report.Results.QuestionsResults {
		qType := ""
		if i < len(report.Questions) {
			qType = string(report.Questions[i].Type)
		}
		row := []interface{}{
			i + 1, r.Question, qType, r.Category, r.UserAnswer, r.CorrectAnswer, r.Score,
			r.DetailedAnalysis.Clarity.Score, r.DetailedAnalysis.Correctness.Score, r.DetailedAnalysis.Completeness.Score,
			r.Feedback, strings.Join(r.SuggestedResources, "\n"),
		}
		if err := setRow(f, SheetQuestions, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetQuestions, "B", "B", 60); err != nil {
		return err
	}
	return f.SetColWidth(SheetQuestions, "E", "E", 60)
}

func writeCategories(f *excelize.File, report *interview.Report, bold int) error {
	if err := setRow(f, SheetCategories, 1, []interface{}{"Category", "Average Score"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetCategories, "A1", "B1", bold); err != nil {
		return err
	}

	names := make([]string, 0, len(report.Results.CategoryScores))
	for name := range report.Results.CategoryScores {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if err := setRow(f, SheetCategories, i+2, []interface{}{name, report.Results.CategoryScores[name]}); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetCategories, "A", "A", 30)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
