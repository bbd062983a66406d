// Package server exposes figma-dash outlines over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	figmadash "github.com/kataras/figma-dash"
	"github.com/kataras/figma-dash/pkg/extractor"
	"github.com/kataras/figma-dash/pkg/figma"
	"github.com/kataras/figma-dash/pkg/formatter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds the server settings.
type Config struct {
	MaxDepth       int              // 0 = extractor.DefaultMaxDepth
	DefaultFormat  formatter.Format // used when a request has no format parameter
	RequestTimeout time.Duration    // 0 = no per-request deadline
}

// Server is the HTTP API for rendering outlines.
type Server struct {
	router  chi.Router
	fetcher figmadash.Fetcher
	log     *slog.Logger
	cfg     Config
}

// New creates and configures the HTTP server. fetcher is usually a
// *figma.Client built with the server's own token.
func New(fetcher figmadash.Fetcher, log *slog.Logger, cfg Config) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = formatter.FormatText
	}

	s := &Server{
		fetcher: fetcher,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/files/{fileKey}/outline", s.handleOutline)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleOutline fetches the file and renders it in the format named by the
// "format" query parameter. A comma-separated "node-ids" parameter limits the
// outline to those subtrees.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	fileKey, err := figma.ExtractFileKey(chi.URLParam(r, "fileKey"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := s.cfg.DefaultFormat
	if name := r.URL.Query().Get("format"); name != "" {
		format, err = formatter.ParseFormat(name)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	nodeIDs := figma.ParseNodeIDs(r.URL.Query().Get("node-ids"))

	file, err := figmadash.Fetch(r.Context(), s.fetcher, fileKey, nodeIDs)
	if err != nil {
		s.log.Warn("fetch file failed", "file_key", fileKey, "error", err)
		jsonError(w, "fetch file: "+err.Error(), upstreamStatus(err))
		return
	}

	result, err := figmadash.Render(file, format, s.cfg.MaxDepth)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, extractor.ErrMaxDepth) {
			status = http.StatusUnprocessableEntity
		}
		jsonError(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Write([]byte(result.Output))
}

// upstreamStatus maps a Figma API failure to the status returned to our
// own caller.
func upstreamStatus(err error) int {
	if errors.Is(err, figma.ErrNodeNotFound) {
		return http.StatusNotFound
	}

	var apiErr *figma.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return http.StatusNotFound
		case http.StatusForbidden, http.StatusUnauthorized:
			return http.StatusForbidden
		}
	}
	return http.StatusBadGateway
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
