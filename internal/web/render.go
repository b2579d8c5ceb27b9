// SPDX-License-Identifier: MIT

package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/aircheck-dev/aircheck/internal/log"
)

//go:embed templates
var templateFS embed.FS

// pages holds one template set per page, each paired with the shared
// layout. Parsed once at startup; a broken template fails fast.
var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	names := []string{
		"shows_index.html",
		"show_form.html",
		"stations_index.html",
		"station_form.html",
		"error.html",
	}
	m := make(map[string]*template.Template, len(names))
	for _, name := range names {
		m[name] = template.Must(template.New("layout.html").ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+name,
		))
	}
	return m
}

// baseData carries the fields every page shares. Page data structs embed it.
type baseData struct {
	Title string
	Flash *Flash
}

// newBase pops any pending flash message into the page data.
func (s *Server) newBase(w http.ResponseWriter, r *http.Request, title string) baseData {
	return baseData{Title: title, Flash: popFlash(w, r)}
}

// render executes a page into a buffer first so a template failure never
// produces a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	tmpl, ok := pages[page]
	if !ok {
		log.WithComponentFromContext(r.Context(), "web").Error().
			Str("event", "render.unknown_page").
			Str("page", page).
			Msg("no such page template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.WithComponentFromContext(r.Context(), "web").Error().
			Err(err).
			Str("event", "render.failed").
			Str("page", page).
			Msg("template execution failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPageData struct {
	baseData
	Message string
	Detail  string
}

// renderStoreError reports a failed document read or write as a 500 page.
// The raw error is shown: this app is the repair tool for those files.
func (s *Server) renderStoreError(w http.ResponseWriter, r *http.Request, message string, err error) {
	log.WithComponentFromContext(r.Context(), "web").Error().
		Err(err).
		Str("event", "store.error").
		Msg(message)

	data := errorPageData{
		baseData: s.newBase(w, r, "Error"),
		Message:  message,
		Detail:   err.Error(),
	}
	s.render(w, r, http.StatusInternalServerError, "error.html", data)
}
