package view

import "github.com/a-h/templ"

// HomePage renders the sign-in and sign-up forms.
func HomePage(errMsg string) templ.Component {
	return layout("Welcome", "", component(func(h *html) {
		h.raw(`<h1>Timeclock</h1>`)
		errorBanner(h, errMsg)

		h.raw(`<section><h2>Sign in</h2><form method="post" action="/login">`)
		h.raw(`<label>Email <input type="email" name="email" required></label>`)
		h.raw(`<label>Password <input type="password" name="password" required></label>`)
		h.raw(`<button type="submit">Sign in</button></form></section>`)

		h.raw(`<section><h2>Create an account</h2><form method="post" action="/register">`)
		h.raw(`<label>Name <input name="name" minlength="3" required></label>`)
		h.raw(`<label>Email <input type="email" name="email" required></label>`)
		h.raw(`<label>Password <input type="password" name="password" minlength="6" required></label>`)
		h.raw(`<label>I am an <select name="type"><option value="employee">employee</option><option value="employer">employer</option></select></label>`)
		h.raw(`<button type="submit">Sign up</button></form></section>`)
	}))
}
