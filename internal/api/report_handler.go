package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"interviewbuddy/app"
	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves saved reports and statistics.
type ReportHandler struct {
	reports *app.ReportService
	stats   *app.StatsService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *app.ReportService, stats *app.StatsService) *ReportHandler {
	return &ReportHandler{reports: reports, stats: stats}
}

// List returns every report summary, newest first.
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reports.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	summaries := make([]interview.ReportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, r.Summary())
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}

// Recent returns the dashboard's latest reports.
func (h *ReportHandler) Recent(c *gin.Context) {
	summaries, err := h.reports.Recent(c.Request.Context(), currentUser(c), app.RecentReportsLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}

// Get returns one full report.
func (h *ReportHandler) Get(c *gin.Context) {
	report, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// View renders one report as an HTML page.
func (h *ReportHandler) View(c *gin.Context) {
	report, ok := h.load(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", RenderReportHTML(report))
}

// Delete removes one report.
func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}
	if err := h.reports.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export downloads one report as a spreadsheet.
func (h *ReportHandler) Export(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	name, err := h.reports.Export(c.Request.Context(), currentUser(c), id, &buf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Stats returns the dashboard statistics.
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.stats.UserStats(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DetailedStats returns the progress charts data.
func (h *ReportHandler) DetailedStats(c *gin.Context) {
	stats, err := h.stats.DetailedStats(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) load(c *gin.Context) (*interview.Report, bool) {
	id, ok := reportID(c)
	if !ok {
		return nil, false
	}
	report, err := h.reports.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return report, true
}

// reportID parses the :id path parameter. A malformed id cannot name a
// report, so it is answered like a missing one.
func reportID(c *gin.Context) (core.ReportID, bool) {
	id, err := core.ParseReportID(c.Param("id"))
	if err != nil {
		respondError(c, core.ErrReportNotFound)
		return "", false
	}
	return id, true
}
