package view

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/service"
)

// TimesheetPage renders the employee's attendance page: today's card, the
// month's figures and the entry list.
func TimesheetPage(user *domain.User, today *domain.TimeEntry, ts *service.Timesheet) templ.Component {
	return layout("My timesheet", user.Name, component(func(h *html) {
		h.raw(`<h1>Hello, `)
		h.text(user.Name)
		h.raw(`</h1>`)

		// Coordinates are filled in by the browser when it grants access.
		h.raw(`<div data-signals="{latitude: null, longitude: null, address: ''}" `)
		h.raw(`data-init="navigator.geolocation && navigator.geolocation.getCurrentPosition(p => { $latitude = p.coords.latitude; $longitude = p.coords.longitude })">`)
		h.raw(`<div id="today-card">`)
		h.render(TodayCard(today, ""))
		h.raw(`</div></div>`)

		h.raw(`<section><form method="get" action="/timesheet"><label>Month <input type="month" name="month" value="`)
		h.text(ts.Month)
		h.raw(`"></label><button type="submit">Show</button></form>`)
		h.raw(`<a class="download" href="/api/reports/timesheet.xlsx?month=`)
		h.text(ts.Month)
		h.raw(`">Download</a>`)
		h.render(MonthStats(ts.Summary))
		h.render(EntriesTable(ts.Entries))
		h.raw(`</section>`)
	}))
}

// TodayCard shows today's entry with the action that applies next.
func TodayCard(today *domain.TimeEntry, errMsg string) templ.Component {
	return component(func(h *html) {
		h.raw(`<article class="today">`)
		errorBanner(h, errMsg)

		switch {
		case today == nil || today.CheckIn == "":
			h.raw(`<p>You have not checked in today.</p>`)
			h.raw(`<button data-on:click="@post('/timesheet/check-in')">Check in</button>`)
		case today.CheckOut == "":
			h.raw(`<p>Checked in at <strong>`)
			h.text(today.CheckIn)
			h.raw(`</strong>`)
			if today.Location.Address != "" {
				h.raw(` · `)
				h.text(today.Location.Address)
			}
			h.raw(`</p><button data-on:click="@post('/timesheet/check-out')">Check out</button>`)
		default:
			h.raw(`<p>`)
			h.text(today.CheckIn)
			h.raw(` – `)
			h.text(today.CheckOut)
			h.raw(` · <strong>`)
			h.text(formatHours(today.Hours()))
			h.raw(` h</strong></p>`)
			h.raw(`<button data-on:click="@post('/timesheet/check-in')">Check in again</button>`)
		}
		h.raw(`</article>`)
	})
}

// MonthStats renders the figures of a timesheet summary.
func MonthStats(sum service.Summary) templ.Component {
	return component(func(h *html) {
		h.raw(`<dl class="stats">`)
		stat(h, "Hours worked", formatHours(sum.TotalHours))
		stat(h, "Days worked", strconv.Itoa(sum.CompletedEntries))
		stat(h, "Incomplete days", strconv.Itoa(sum.PartialEntries))
		stat(h, "Average per day", formatHours(sum.AverageHours))
		h.raw(`</dl>`)
	})
}

// EntriesTable lists entries in the order given.
func EntriesTable(entries []domain.TimeEntry) templ.Component {
	return component(func(h *html) {
		if len(entries) == 0 {
			h.raw(`<p id="entries" class="empty">No entries for this period.</p>`)
			return
		}
		h.raw(`<table id="entries"><thead><tr><th>Date</th><th>Check-in</th><th>Check-out</th><th>Hours</th><th>Location</th></tr></thead><tbody>`)
		for i := range entries {
			e := &entries[i]
			h.raw(`<tr><td>`)
			h.text(e.Date)
			h.raw(`</td><td>`)
			h.text(orDash(e.CheckIn))
			h.raw(`</td><td>`)
			h.text(orDash(e.CheckOut))
			h.raw(`</td><td>`)
			if e.TotalHours != nil {
				h.text(formatHours(*e.TotalHours))
			} else {
				h.raw(`-`)
			}
			h.raw(`</td><td>`)
			h.text(orDash(e.Location.Address))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
	})
}

func stat(h *html, label, value string) {
	h.raw(`<div><dt>`)
	h.text(label)
	h.raw(`</dt><dd>`)
	h.text(value)
	h.raw(`</dd></div>`)
}
