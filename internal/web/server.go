// Package web serves the favorites panel over HTTP: HTML pages rendered
// from embedded templates, JSON for clients that ask for it.
package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/padfav/padfav/internal/controller"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/i18n"
	"github.com/padfav/padfav/internal/logging"
	"github.com/padfav/padfav/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Options configures the web panel server.
type Options struct {
	Store   *store.Store  // required
	Catalog *i18n.Catalog // required
	Logger  logging.Logger

	// Addr is the listen address, host:port.
	Addr string

	// SortCriterion orders the list when no ?sort= parameter is given.
	SortCriterion favorite.Criterion

	// Decimals is the display precision for millimeter values.
	Decimals int

	// Version is shown in the page footer.
	Version string
}

// NewServer creates and configures the HTTP server for the favorites panel.
func NewServer(opts Options) (*http.Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("favorites store is required")
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("i18n catalog is required")
	}
	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}

	handler, err := newRouter(opts, log)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:    opts.Addr,
		Handler: handler,
	}, nil
}

// newRouter wires the handlers, middleware, and static assets.
func newRouter(opts Options, log logging.Logger) (http.Handler, error) {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}

	sort := opts.SortCriterion
	if !sort.IsValid() {
		sort = favorite.DefaultCriterion
	}

	// The web surface has no live canvas, so the controller's collaborator
	// pushes go to a headless sink. Title and description commits still run
	// through it for the reference-preserving normalization.
	ctrl, err := controller.New(controller.Options{
		Store:               opts.Store,
		Renderer:            headless{},
		Translator:          opts.Catalog,
		Notifier:            headless{},
		Dialogs:             headless{},
		Form:                headless{},
		Logger:              log,
		SortCriterion:       sort,
		DefaultNameVariants: opts.Catalog.DefaultNameVariants(),
	})
	if err != nil {
		return nil, err
	}

	h := &Handlers{
		store:       opts.Store,
		ctrl:        ctrl,
		catalog:     opts.Catalog,
		renderer:    NewRenderer(templateSub, opts.Catalog, opts.Decimals, opts.Version, log),
		log:         log,
		defaultSort: sort,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(securityHeaders)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/favorites", http.StatusFound)
	})
	r.Get("/favorites", h.HandleList)
	r.Get("/favorites/{id}", h.HandleDetail)
	r.Post("/favorites/{id}/details", h.HandleDetails)
	r.Post("/favorites/{id}/delete", h.HandleDelete)
	r.Get("/export.json", h.HandleExport)
	r.Post("/import", h.HandleImport)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return r, nil
}

// headless satisfies the controller collaborators for a surface without a
// live canvas. Render pushes go nowhere and dialogs dismiss immediately.
type headless struct{}

func (headless) Render(records []favorite.Record, order []string) {}
func (headless) Highlight(id string, withScroll bool)             {}
func (headless) UpdateCard(id string, rec favorite.Record)        {}
func (headless) Success(message string)                           {}
func (headless) Error(message string)                             {}
func (headless) Info(message string)                              {}
func (headless) Warning(message string)                           {}
func (headless) Values() favorite.FormValues                      { return favorite.FormValues{} }
func (headless) SetValues(values favorite.FormValues)             {}

func (headless) ShowCommentDialog(cb func(title, description string, ok bool)) { cb("", "", false) }
func (headless) ShowDeleteDialog(cb func(confirmed bool))                      { cb(false) }

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request at debug level.
func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
			)
		})
	}
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log logging.Logger) error {
	if log == nil {
		log = logging.Noop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("favorites panel running", "url", "http://"+srv.Addr)
	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be reachable from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
