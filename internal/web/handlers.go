package web

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/padfav/padfav/internal/controller"
	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/i18n"
	"github.com/padfav/padfav/internal/logging"
	"github.com/padfav/padfav/internal/store"
)

// maxImportBytes bounds how much upload data one import request may carry.
const maxImportBytes = 16 << 20 // 16 MiB

// Handlers contains HTTP route handlers for the favorites panel.
type Handlers struct {
	store       *store.Store
	ctrl        *controller.Controller
	catalog     *i18n.Catalog
	renderer    *Renderer
	log         logging.Logger
	defaultSort favorite.Criterion
}

// HandleList handles GET /favorites — the sorted favorites list.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	criterion := h.defaultSort
	if raw := r.URL.Query().Get("sort"); raw != "" {
		criterion = favorite.ParseCriterion(raw)
	}

	records := favorite.Sort(h.store.GetAll(r.Context()), criterion)

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"favorites": records,
			"count":     len(records),
			"sort":      criterion.String(),
		})
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: h.renderer.pageData("Favorites"),
		Items:    records,
		Count:    len(records),
		Sort:     criterion,
		Criteria: favorite.Criteria(),
	})
}

// HandleDetail handles GET /favorites/{id} — one favorite, with the
// description rendered as markdown.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, rec)
		return
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData:            h.renderer.pageData(favorite.DisplayTitle(*rec, h.catalog)),
		Favorite:            *rec,
		EditTitle:           favorite.ParseDisplayText(rec.Title).Resolve(h.catalog),
		DescriptionHTML:     renderMarkdown(rec.Description),
		TitleMaxRunes:       favorite.TitleMaxRunes,
		DescriptionMaxRunes: favorite.DescriptionMaxRunes,
	})
}

// HandleDetails handles POST /favorites/{id}/details — commit a title and
// description edit.
func (h *Handlers) HandleDetails(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("malformed form data"))
		return
	}

	updated, err := h.ctrl.ApplyDetails(r.Context(), chi.URLParam(r, "id"),
		r.PostFormValue("title"), r.PostFormValue("description"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, updated)
		return
	}
	http.Redirect(w, r, "/favorites/"+updated.ID, http.StatusFound)
}

// HandleDelete handles POST /favorites/{id}/delete. Removal is idempotent,
// so deleting an already-gone favorite succeeds.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Remove(r.Context(), id); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
		return
	}
	http.Redirect(w, r, "/favorites", http.StatusFound)
}

// HandleExport handles GET /export.json — download the collection in the
// persisted layout.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.ExportAll(r.Context())
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	filename := fmt.Sprintf("favorites-%s.json", time.Now().UTC().Format("2006-01-02T150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = io.WriteString(w, data)
}

// HandleImport handles POST /import — merge an uploaded export into the
// collection. Accepts a multipart "file" field or a raw JSON body.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readImportPayload(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := h.store.ImportAll(r.Context(), data)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	http.Redirect(w, r, "/favorites", http.StatusFound)
}

// readImportPayload extracts the import JSON from the request body.
func readImportPayload(r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "multipart/form-data" {
		return readLimited(r.Body)
	}

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		return "", errors.NewInvalidRequest("malformed multipart upload")
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return "", errors.NewInvalidRequest("import file field is missing")
	}
	defer f.Close()
	return readLimited(f)
}

// readLimited reads at most maxImportBytes from rd.
func readLimited(rd io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(rd, maxImportBytes+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if len(data) > maxImportBytes {
		return "", errors.NewInvalidRequest("import payload exceeds the size limit")
	}
	return string(data), nil
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
