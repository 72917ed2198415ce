package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/service"
	"github.com/msomdec/timeclock/internal/view"
)

// PageHandler serves the HTML pages and their datastar actions.
type PageHandler struct {
	auth         *service.AuthService
	attendance   *service.AttendanceService
	reports      *service.ReportService
	cookieSecure bool
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(auth *service.AuthService, attendance *service.AttendanceService, reports *service.ReportService, cookieSecure bool) *PageHandler {
	return &PageHandler{auth: auth, attendance: attendance, reports: reports, cookieSecure: cookieSecure}
}

// HandleHome sends signed-in users to their landing page and renders the
// sign-in forms otherwise.
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if user := UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, landingPage(user), http.StatusSeeOther)
		return
	}
	view.HomePage("").Render(r.Context(), w)
}

// HandleLoginForm signs in from the HTML form.
func (h *PageHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	token, user, err := h.auth.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			w.WriteHeader(http.StatusUnauthorized)
			view.HomePage("Invalid email or password.").Render(r.Context(), w)
			return
		}
		slog.Error("login user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setAuthCookie(w, token, h.cookieSecure)
	http.Redirect(w, r, landingPage(user), http.StatusSeeOther)
}

// HandleRegisterForm creates an account from the HTML form and signs it in.
func (h *PageHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")
	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: password,
		Type:     domain.UserType(r.FormValue("type")),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			w.WriteHeader(http.StatusConflict)
			view.HomePage("An account with that email already exists.").Render(r.Context(), w)
		case errors.Is(err, domain.ErrInvalidInput):
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.HomePage(err.Error()).Render(r.Context(), w)
		default:
			slog.Error("register user", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	token, _, err := h.auth.Login(r.Context(), user.Email, password)
	if err != nil {
		slog.Error("login after register", "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	setAuthCookie(w, token, h.cookieSecure)
	http.Redirect(w, r, landingPage(user), http.StatusSeeOther)
}

// HandleLogoutForm clears the auth cookie and returns to the home page.
func (h *PageHandler) HandleLogoutForm(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleTimesheet renders the employee's timesheet for ?month=YYYY-MM.
func (h *PageHandler) HandleTimesheet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user.IsEmployer() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	today, err := h.attendance.Today(r.Context(), user.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		slog.Error("get today's entry", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ts, err := h.reports.Timesheet(r.Context(), user, user.ID, r.URL.Query().Get("month"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		slog.Error("load timesheet", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.TimesheetPage(user, today, ts).Render(r.Context(), w)
}

// HandleCheckIn records a check-in and patches #today-card.
func (h *PageHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	h.recordAndPatch(w, r, h.attendance.CheckIn, "check in")
}

// HandleCheckOut records a check-out and patches #today-card.
func (h *PageHandler) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	h.recordAndPatch(w, r, h.attendance.CheckOut, "check out")
}

func (h *PageHandler) recordAndPatch(w http.ResponseWriter, r *http.Request, fn recordFunc, action string) {
	user := UserFromContext(r.Context())
	if user.IsEmployer() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	// The page's latitude, longitude and address signals.
	var signals locationRequest
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	loc, err := signals.location()
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	entry, err := fn(r.Context(), user.ID, loc)
	var errMsg string
	switch {
	case err == nil:
		attendanceEvents.WithLabelValues(action).Inc()
	case errors.Is(err, domain.ErrNoCheckIn):
		errMsg = "Check in before checking out."
	case errors.Is(err, domain.ErrInvalidInput):
		errMsg = err.Error()
	default:
		slog.Error(action, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if entry == nil {
		// Show the card as it stands after a rejected action.
		entry, _ = h.attendance.Today(r.Context(), user.ID)
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(
		view.TodayCard(entry, errMsg),
		datastar.WithSelectorID("today-card"),
		datastar.WithModeInner(),
	)

	if err == nil {
		if ts, err := h.reports.Timesheet(r.Context(), user, user.ID, ""); err == nil {
			sse.PatchElementTempl(view.EntriesTable(ts.Entries))
		}
	}
}

// HandleDashboard renders the employer dashboard for ?period= (default this month).
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !user.IsEmployer() {
		http.Redirect(w, r, "/timesheet", http.StatusSeeOther)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = service.PeriodThisMonth
	}

	sum, err := h.reports.Summary(r.Context(), user, service.ReportQuery{Period: period})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		slog.Error("summarize for dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	employees, err := h.auth.ListEmployees(r.Context(), user)
	if err != nil {
		slog.Error("list employees for dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.DashboardPage(user, employees, sum, period).Render(r.Context(), w)
}

// HandleDashboardSummary patches #summary for the period signal.
func (h *PageHandler) HandleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var signals struct {
		Period string `json:"period"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sum, err := h.reports.Summary(r.Context(), user, service.ReportQuery{Period: signals.Period})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		slog.Error("summarize for dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(
		view.SummaryFragment(sum),
		datastar.WithSelectorID("summary"),
		datastar.WithModeInner(),
	)
}

func landingPage(user *domain.User) string {
	if user.IsEmployer() {
		return "/dashboard"
	}
	return "/timesheet"
}
