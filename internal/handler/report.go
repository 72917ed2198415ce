package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/timeclock/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves attendance summaries and timesheet exports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// HandleSummary aggregates the entries visible to the current user.
// GET /api/reports/summary?period=today|this-week|this-month|last-month|all
// GET /api/reports/summary?from=YYYY-MM-DD&to=YYYY-MM-DD&employeeId=
// Response: {"summary": {...}}
func (h *ReportHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.ReportQuery{
		Period: q.Get("period"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
	employeeID, ok := parseOptionalID(w, q.Get("employeeId"))
	if !ok {
		return
	}
	query.EmployeeID = employeeID

	sum, err := h.reports.Summary(r.Context(), UserFromContext(r.Context()), query)
	if err != nil {
		writeServiceError(w, err, "summarize entries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary": toSummaryDTO(sum),
	})
}

// HandleTimesheetXLSX downloads one employee's month as a spreadsheet.
// GET /api/reports/timesheet.xlsx?month=YYYY-MM&employeeId=
func (h *ReportHandler) HandleTimesheetXLSX(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	employeeID, ok := parseOptionalID(w, q.Get("employeeId"))
	if !ok {
		return
	}

	ts, err := h.reports.Timesheet(r.Context(), UserFromContext(r.Context()), employeeID, q.Get("month"))
	if err != nil {
		writeServiceError(w, err, "load timesheet")
		return
	}

	// Buffer so a failed export can still produce a JSON error.
	var buf bytes.Buffer
	if err := service.ExportTimesheet(&buf, ts); err != nil {
		writeServiceError(w, err, "export timesheet")
		return
	}

	filename := fmt.Sprintf("timesheet-%d-%s.xlsx", ts.Employee.ID, ts.Month)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("write timesheet", "error", err)
	}
}

// parseOptionalID parses an optional positive id query value, answering 400
// itself when the value is malformed.
func parseOptionalID(w http.ResponseWriter, v string) (int64, bool) {
	if v == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid employeeId.")
		return 0, false
	}
	return id, true
}
