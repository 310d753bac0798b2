// Package server serves the share pages as an HTML dashboard.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/ppiankov/sharechart/internal/chart"
	"github.com/ppiankov/sharechart/internal/ingest"
	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/pipeline"
	"github.com/ppiankov/sharechart/internal/transit"
)

// Reports builds the reports the dashboard shows
type Reports interface {
	BuildPage(ctx context.Context, page model.PageConfig) (*model.Report, error)
	BuildTransit(ctx context.Context, q pipeline.TransitQuery) (*model.Report, error)
}

// Server is the HTTP dashboard
type Server struct {
	reports   Reports
	config    *model.Config
	chartOpts chart.Options
	limiter   *Limiter
	pages     *pages
	logger    *slog.Logger
	startedAt time.Time
}

// New creates a dashboard server
func New(reports Reports, cfg *model.Config, chartOpts chart.Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tmpl, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		reports:   reports,
		config:    cfg,
		chartOpts: chartOpts,
		limiter:   NewLimiter(cfg.Server.RequestsPerSecond, cfg.Server.Burst),
		pages:     tmpl,
		logger:    logger,
		startedAt: time.Now().UTC(),
	}, nil
}

// Handler returns the routed, rate-limited handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /pages/{name}", s.handlePage)
	mux.HandleFunc("GET /pages/{name}/chart.svg", s.handlePageChart(chart.FormatSVG))
	mux.HandleFunc("GET /pages/{name}/chart.png", s.handlePageChart(chart.FormatPNG))
	mux.HandleFunc("GET /transit", s.handleTransit)
	mux.HandleFunc("GET /transit/chart.svg", s.handleTransitChart(chart.FormatSVG))
	mux.HandleFunc("GET /transit/chart.png", s.handleTransitChart(chart.FormatPNG))
	mux.HandleFunc("/", s.handleNotFound)

	return s.limiter.Middleware(s.logRequests(mux))
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", httpSrv.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("dashboard shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "ok\nuptime %s\n", time.Since(s.startedAt).Round(time.Second))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.pages.index, map[string]any{
		"Pages":         s.config.Pages,
		"TransitTitle":  s.config.Transit.Title,
		"TransitSource": s.config.Transit.Source,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	report, ok := s.buildPage(w, r)
	if !ok {
		return
	}
	s.renderReport(w, report)
}

func (s *Server) handleTransit(w http.ResponseWriter, r *http.Request) {
	report, ok := s.buildTransit(w, r)
	if !ok {
		return
	}
	s.renderReport(w, report)
}

func (s *Server) handlePageChart(format chart.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if report, ok := s.buildPage(w, r); ok {
			s.writeChart(w, report, format)
		}
	}
}

func (s *Server) handleTransitChart(format chart.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if report, ok := s.buildTransit(w, r); ok {
			s.writeChart(w, report, format)
		}
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, http.StatusNotFound, fmt.Errorf("no page at %s", r.URL.Path))
}

func (s *Server) buildPage(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	name := r.PathValue("name")
	page, ok := s.config.Page(name)
	if !ok {
		s.renderError(w, http.StatusNotFound, fmt.Errorf("unknown page %q", name))
		return nil, false
	}

	report, err := s.reports.BuildPage(r.Context(), page)
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	return report, true
}

func (s *Server) buildTransit(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	q := r.URL.Query()
	month := s.config.Transit.Month
	if q.Has("month") {
		month = q.Get("month")
	}

	report, err := s.reports.BuildTransit(r.Context(), pipeline.TransitQuery{
		Date:  q.Get("date"),
		Line:  q.Get("line"),
		Month: month,
	})
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	return report, true
}

func (s *Server) renderReport(w http.ResponseWriter, report *model.Report) {
	var svg template.HTML
	if report.HasData() {
		var buf bytes.Buffer
		if err := chart.Write(&buf, report, chart.FormatSVG, s.chartOpts); err != nil {
			s.fail(w, fmt.Errorf("render chart: %w", err))
			return
		}
		// chart.Write escapes labels and title in SVG output
		svg = template.HTML(buf.String())
	}

	s.render(w, http.StatusOK, s.pages.report, map[string]any{
		"Report": report,
		"Chart":  svg,
	})
}

func (s *Server) writeChart(w http.ResponseWriter, report *model.Report, format chart.Format) {
	var buf bytes.Buffer
	if err := chart.Write(&buf, report, format, s.chartOpts); err != nil {
		if errors.Is(err, chart.ErrNothingToRender) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.logger.Error("render chart", "page", report.Page, "error", err)
		http.Error(w, "render chart failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write(buf.Bytes())
}

// fail maps build errors onto status codes
func (s *Server) fail(w http.ResponseWriter, err error) {
	var missing *ingest.MissingFileError
	switch {
	case errors.As(err, &missing):
		s.renderError(w, http.StatusNotFound, err)
	case errors.Is(err, transit.ErrUnknownSelection):
		s.renderError(w, http.StatusBadRequest, err)
	default:
		s.logger.Error("build report", "error", err)
		s.renderError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, err error) {
	s.render(w, status, s.pages.failure, map[string]any{
		"Title":   fmt.Sprintf("%d %s", status, http.StatusText(status)),
		"Message": err.Error(),
	})
}

func (s *Server) render(w http.ResponseWriter, status int, t *template.Template, data any) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		s.logger.Error("execute template", "template", t.Name(), "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
