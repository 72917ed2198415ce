// Package view renders the server-side HTML pages and the fragments
// patched into them over SSE.
package view

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// html writes markup and remembers the first error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) rawf(format string, args ...any) {
	if h.err == nil {
		_, h.err = fmt.Fprintf(h.w, format, args...)
	}
}

// text writes s escaped for element content and attribute values.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) render(c templ.Component) {
	if h.err == nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// layout wraps body in the shared page shell. userName is shown in the
// navigation bar when set.
func layout(title, userName string, body templ.Component) templ.Component {
	return component(func(h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` · Timeclock</title>`)
		h.rawf(`<script type="module" src="%s"></script>`, datastarScript)
		h.raw(`</head><body><nav><a href="/">Timeclock</a>`)
		if userName != "" {
			h.raw(`<span class="user">`)
			h.text(userName)
			h.raw(`</span><form method="post" action="/logout"><button type="submit">Log out</button></form>`)
		}
		h.raw(`</nav><main>`)
		h.render(body)
		h.raw(`</main></body></html>`)
	})
}

func errorBanner(h *html, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<p class="error" role="alert">`)
	h.text(msg)
	h.raw(`</p>`)
}
