package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphprep/pkg/buildinfo"
	perrors "github.com/matzehuels/graphprep/pkg/errors"
	"github.com/matzehuels/graphprep/pkg/graph"
	pkgio "github.com/matzehuels/graphprep/pkg/io"
	"github.com/matzehuels/graphprep/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 32 << 20

// renderFormats are the formats served by /v1/render.
var renderFormats = []string{pipeline.FormatDOT, pipeline.FormatSVG}

// Config holds the server dependencies.
type Config struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// Metrics serves GET /metrics. The route is absent when nil.
	Metrics http.Handler

	// MaxBodyBytes defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
}

// New creates the HTTP handler and registers all routes.
func New(cfg Config) http.Handler {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	h := &Handler{runner: cfg.Runner, logger: cfg.Logger, maxBody: cfg.MaxBodyBytes}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(instrument(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, perrors.New(perrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Code:    perrors.ErrCodeUnsupported,
			Message: fmt.Sprintf("method %s not allowed", r.Method),
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/prepare", h.prepare)
		r.Post("/render", h.render)
	})
	r.Get("/healthz", h.healthz)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	return r
}

// POST /v1/prepare returns the prepared result as JSON or YAML.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request) {
	g, err := h.readGraph(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	refresh, err := boolParam(r, "refresh")
	if err != nil {
		writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pkgio.ValidateOutputFormat(format); err != nil {
		writeError(w, err)
		return
	}

	h.execute(w, r, g, pipeline.Options{
		Formats: []string{format},
		Refresh: refresh,
	})
}

// POST /v1/render returns a DOT or SVG diagram of the prepared graph.
func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := perrors.ValidateFormat("render format", format, renderFormats); err != nil {
		writeError(w, err)
		return
	}
	detailed, err := boolParam(r, "detailed")
	if err != nil {
		writeError(w, err)
		return
	}
	refresh, err := boolParam(r, "refresh")
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := h.readGraph(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	h.execute(w, r, g, pipeline.Options{
		Formats:  []string{format},
		Detailed: detailed,
		Refresh:  refresh,
	})
}

// GET /healthz answers 200 while the process is up.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{Status: "ok", Info: buildinfo.Get()})
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, g graph.Graph, opts pipeline.Options) {
	opts.Logger = h.logger.With("request_id", RequestID(r.Context()))
	result, err := h.runner.Execute(r.Context(), g, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = perrors.Wrap(perrors.ErrCodeTimeout, err, "request cancelled")
		} else {
			h.logger.Error("pipeline failed", "error", err, "request_id", RequestID(r.Context()))
		}
		writeError(w, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Graph-Hash", result.GraphHash)
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (h *Handler) readGraph(w http.ResponseWriter, r *http.Request) (graph.Graph, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	g, err := pkgio.ReadJSON(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return graph.Graph{}, err
		}
		return graph.Graph{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid graph: %v", err)
	}
	return g, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, perrors.New(perrors.ErrCodeInvalidInput, "query parameter %s: invalid boolean %q", name, raw)
	}
	return v, nil
}

func cacheStatus(info pipeline.CacheInfo) string {
	switch {
	case info.PrepareHit && info.RenderHit:
		return "hit"
	case info.PrepareHit || info.RenderHit:
		return "partial"
	}
	return "miss"
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
