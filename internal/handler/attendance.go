package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/service"
)

// AttendanceHandler serves the time entry JSON API.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// locationRequest is the optional body of check-in and check-out.
type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
}

// location returns nil when no coordinates were sent, so the service
// records its fallback location.
func (l locationRequest) location() (*domain.Location, error) {
	if l.Latitude == nil && l.Longitude == nil {
		return nil, nil
	}
	if l.Latitude == nil || l.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude and longitude must be sent together", domain.ErrInvalidInput)
	}
	return &domain.Location{Latitude: *l.Latitude, Longitude: *l.Longitude, Address: l.Address}, nil
}

// HandleCheckIn records today's check-in for the current employee.
// POST /api/time-entries/check-in
// Request:  {"latitude":-23.55,"longitude":-46.63,"address":"..."} (optional)
// Response: {"entry": {...}}
func (h *AttendanceHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, h.attendance.CheckIn, "check in")
}

// HandleCheckOut records today's check-out for the current employee.
// POST /api/time-entries/check-out
// Response: {"entry": {...}} or 404 when there is no check-in today
func (h *AttendanceHandler) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, h.attendance.CheckOut, "check out")
}

type recordFunc func(ctx context.Context, employeeID int64, loc *domain.Location) (*domain.TimeEntry, error)

func (h *AttendanceHandler) record(w http.ResponseWriter, r *http.Request, fn recordFunc, action string) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	if user.IsEmployer() {
		writeError(w, http.StatusForbidden, "Only employees can record attendance.")
		return
	}

	var req locationRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	loc, err := req.location()
	if err != nil {
		writeServiceError(w, err, action)
		return
	}

	entry, err := fn(r.Context(), user.ID, loc)
	if err != nil {
		writeServiceError(w, err, action)
		return
	}
	attendanceEvents.WithLabelValues(action).Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"entry": toTimeEntryDTO(entry),
	})
}

// HandleToday returns the current employee's entry for today.
// GET /api/time-entries/today
// Response: {"entry": {...}} or {"entry": null}
func (h *AttendanceHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	entry, err := h.attendance.Today(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"entry": nil})
			return
		}
		writeServiceError(w, err, "get today's entry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entry": toTimeEntryDTO(entry),
	})
}

// HandleList returns the entries visible to the current user.
// GET /api/time-entries?employeeId=&from=YYYY-MM-DD&to=YYYY-MM-DD&limit=
// Response: {"entries": [...]}
func (h *AttendanceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.TimeEntryFilter{From: q.Get("from"), To: q.Get("to")}

	if v := q.Get("employeeId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid employeeId.")
			return
		}
		filter.EmployeeIDs = []int64{id}
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit.")
			return
		}
		filter.Limit = limit
	}

	h.list(w, r, filter)
}

// HandleListByEmployee returns one employee's entries.
// GET /api/time-entries/{employeeId}
// Response: {"entries": [...]}
func (h *AttendanceHandler) HandleListByEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("employeeId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employeeId.")
		return
	}
	h.list(w, r, domain.TimeEntryFilter{EmployeeIDs: []int64{id}})
}

func (h *AttendanceHandler) list(w http.ResponseWriter, r *http.Request, filter domain.TimeEntryFilter) {
	entries, err := h.attendance.ListEntries(r.Context(), UserFromContext(r.Context()), filter)
	if err != nil {
		writeServiceError(w, err, "list time entries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": toTimeEntryDTOs(entries),
	})
}
