package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/yuin/goldmark"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/i18n"
	"github.com/padfav/padfav/internal/logging"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Lang    string
	Version string
}

// ListPageData is the template data for the favorites list page.
type ListPageData struct {
	PageData
	Items    []favorite.Record
	Count    int
	Sort     favorite.Criterion
	Criteria []favorite.Criterion
}

// DetailPageData is the template data for the favorite detail page.
type DetailPageData struct {
	PageData
	Favorite favorite.Record

	// EditTitle seeds the title input: stored references resolve to the
	// live translation so users edit readable text.
	EditTitle string

	// DescriptionHTML is the markdown-rendered description.
	DescriptionHTML template.HTML

	TitleMaxRunes       int
	DescriptionMaxRunes int
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	catalog   *i18n.Catalog
	version   string
	log       logging.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
// The display helpers close over the catalog and precision so titles and
// presets resolve through the usual reference rules.
func NewRenderer(templateFS fs.FS, catalog *i18n.Catalog, decimals int, version string, log logging.Logger) *Renderer {
	funcMap := template.FuncMap{
		"displayTitle":  func(r favorite.Record) string { return favorite.DisplayTitle(r, catalog) },
		"displayPreset": func(r favorite.Record) string { return favorite.DisplayPreset(r, catalog) },
		"dims":          func(r favorite.Record) string { return favorite.FormatDimensions(r, decimals) },
		"num":           func(v *float64) string { return formatFloatPtr(v, decimals) },
		"shortID":       favorite.ShortID,
		"formatTime":    formatTime,
		"tr":            catalog.Translate,
	}

	// Parse layout as the base template, then clone per page.
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"list":   "list.html",
		"detail": "detail.html",
		"error":  "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		catalog:   catalog,
		version:   version,
		log:       log,
	}
}

// pageData builds the shared template fields for a page.
func (r *Renderer) pageData(title string) PageData {
	return PageData{
		Title:   title,
		Lang:    r.catalog.Language(),
		Version: r.version,
	}
}

// renderPage renders a named page template with HTTP 200.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.log.Error("template not found", "name", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.log.Error("template execution failed", "name", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var fErr *errors.FavError
	if !stderrors.As(err, &fErr) {
		fErr = errors.NewInternal(err)
	}

	if wantsJSON(req) {
		renderJSON(w, fErr.Status, map[string]any{
			"error": map[string]any{
				"code":    string(fErr.Code),
				"message": fErr.Message,
				"status":  fErr.Status,
			},
		})
		return
	}

	r.renderPageStatus(w, fErr.Status, "error", ErrorPageData{
		PageData:   r.pageData(fmt.Sprintf("Error %d", fErr.Status)),
		StatusCode: fErr.Status,
		Message:    fErr.Message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark. Raw HTML
// in the input stays escaped.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats an epoch-millisecond stamp as "2006-01-02 15:04" UTC.
func formatTime(millis int64) string {
	if millis <= 0 {
		return "-"
	}
	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04")
}

// formatFloatPtr renders an optional millimeter value.
func formatFloatPtr(v *float64, decimals int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}
