package view

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/service"
)

var periods = []struct{ value, label string }{
	{service.PeriodToday, "Today"},
	{service.PeriodThisWeek, "This week"},
	{service.PeriodThisMonth, "This month"},
	{service.PeriodLastMonth, "Last month"},
	{service.PeriodAll, "All time"},
}

// DashboardPage renders the employer's overview of the company.
func DashboardPage(user *domain.User, employees []domain.User, sum service.Summary, period string) templ.Component {
	return layout("Dashboard", user.Name, component(func(h *html) {
		h.raw(`<h1>Dashboard</h1>`)

		h.rawf(`<div data-signals="{period: '%s'}">`, templ.EscapeString(period))
		h.raw(`<label>Period <select data-bind:period data-on:change="@get('/dashboard/summary')">`)
		for _, p := range periods {
			h.raw(`<option value="`)
			h.text(p.value)
			h.raw(`"`)
			if p.value == period {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(p.label)
			h.raw(`</option>`)
		}
		h.raw(`</select></label></div>`)

		h.raw(`<section id="summary">`)
		h.render(SummaryFragment(sum))
		h.raw(`</section>`)

		h.rawf(`<section><h2>Employees (%d)</h2>`, len(employees))
		if len(employees) == 0 {
			h.raw(`<p class="empty">No employees yet.</p>`)
		} else {
			h.raw(`<ul class="employees">`)
			for _, e := range employees {
				h.raw(`<li>`)
				h.text(e.Name)
				h.raw(` <small>`)
				h.text(e.Email)
				h.raw(`</small> <a href="/api/reports/timesheet.xlsx?employeeId=`)
				h.raw(strconv.FormatInt(e.ID, 10))
				h.raw(`">Timesheet</a></li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)
	}))
}

// SummaryFragment renders a summary's totals and per-employee rows. It is
// the content of #summary.
func SummaryFragment(sum service.Summary) templ.Component {
	return component(func(h *html) {
		h.raw(`<dl class="stats">`)
		stat(h, "Total hours", formatHours(sum.TotalHours))
		stat(h, "Working days", strconv.Itoa(sum.WorkingDays))
		stat(h, "Active employees", strconv.Itoa(sum.Employees))
		stat(h, "Average per day", formatHours(sum.AverageHours))
		h.raw(`</dl>`)

		if len(sum.ByEmployee) == 0 {
			h.raw(`<p class="empty">No entries for this period.</p>`)
			return
		}
		h.raw(`<table><thead><tr><th>Employee</th><th>Days</th><th>Hours</th></tr></thead><tbody>`)
		for _, e := range sum.ByEmployee {
			h.raw(`<tr><td>`)
			h.text(orDash(e.Name))
			h.raw(`</td><td>`)
			h.raw(strconv.Itoa(e.WorkingDays))
			h.raw(`</td><td>`)
			h.text(formatHours(e.TotalHours))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
	})
}
