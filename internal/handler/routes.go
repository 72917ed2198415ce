package handler

import (
	"net/http"

	"github.com/msomdec/timeclock/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. limiter guards
// the credential endpoints.
func RegisterRoutes(
	mux *http.ServeMux,
	db Pinger,
	auth *service.AuthService,
	attendance *service.AttendanceService,
	reports *service.ReportService,
	limiter service.Limiter,
	cookieSecure bool,
) {
	authH := NewAuthHandler(auth, cookieSecure)
	attendanceH := NewAttendanceHandler(attendance)
	employeeH := NewEmployeeHandler(auth)
	reportH := NewReportHandler(reports)
	pageH := NewPageHandler(auth, attendance, reports, cookieSecure)

	requireAuth := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(auth, fn)
	}
	requireEmployer := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(auth, RequireEmployer(fn))
	}
	limited := func(fn http.HandlerFunc) http.Handler {
		return RateLimit(limiter, fn)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(db))
	mux.Handle("GET /metrics", HandleMetrics())

	// JSON API
	mux.Handle("POST /api/auth/register", limited(authH.HandleRegister))
	mux.Handle("POST /api/auth/login", limited(authH.HandleLogin))
	mux.HandleFunc("POST /api/auth/logout", authH.HandleLogout)
	mux.Handle("GET /api/auth/me", requireAuth(authH.HandleMe))

	mux.Handle("POST /api/time-entries/check-in", requireAuth(attendanceH.HandleCheckIn))
	mux.Handle("POST /api/time-entries/check-out", requireAuth(attendanceH.HandleCheckOut))
	mux.Handle("GET /api/time-entries/today", requireAuth(attendanceH.HandleToday))
	mux.Handle("GET /api/time-entries", requireAuth(attendanceH.HandleList))
	mux.Handle("GET /api/time-entries/{employeeId}", requireAuth(attendanceH.HandleListByEmployee))

	mux.Handle("GET /api/employees", requireEmployer(employeeH.HandleList))
	mux.Handle("POST /api/employees", requireEmployer(employeeH.HandleCreate))

	mux.Handle("GET /api/reports/summary", requireAuth(reportH.HandleSummary))
	mux.Handle("GET /api/reports/timesheet.xlsx", requireAuth(reportH.HandleTimesheetXLSX))

	// Pages
	mux.Handle("GET /{$}", OptionalAuth(auth, http.HandlerFunc(pageH.HandleHome)))
	mux.Handle("POST /login", limited(pageH.HandleLoginForm))
	mux.Handle("POST /register", limited(pageH.HandleRegisterForm))
	mux.HandleFunc("POST /logout", pageH.HandleLogoutForm)

	mux.Handle("GET /timesheet", requireAuth(pageH.HandleTimesheet))
	mux.Handle("POST /timesheet/check-in", requireAuth(pageH.HandleCheckIn))
	mux.Handle("POST /timesheet/check-out", requireAuth(pageH.HandleCheckOut))
	mux.Handle("GET /dashboard", requireAuth(pageH.HandleDashboard))
	mux.Handle("GET /dashboard/summary", requireEmployer(pageH.HandleDashboardSummary))
}
