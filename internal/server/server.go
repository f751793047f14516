// Package server serves a built architecture directory and re-derives
// layouts on demand.
//
// Routes:
//
//	GET /api/health                     liveness and version
//	GET /api/document                   the loaded document
//	GET /api/layout?depth=N&layout=K    reduced view with positions
//	GET /*                              static files from the directory
//
// The document is re-read whenever its modification time changes, so a
// concurrent "archrip build --watch" is picked up without a restart.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/archrip/archrip/pkg/buildinfo"
	"github.com/archrip/archrip/pkg/errors"
	"github.com/archrip/archrip/pkg/graph"
	"github.com/archrip/archrip/pkg/layout"
	"github.com/archrip/archrip/pkg/pipeline"
)

// DocumentName is the file looked up in Dir when Config.Document is empty.
const DocumentName = "architecture.json"

const shutdownTimeout = 5 * time.Second

// Config holds the parameters for a Server.
type Config struct {
	// Dir is served as static files.
	Dir string
	// Document defaults to Dir/architecture.json.
	Document string
	// Runner computes views. Nil means an uncached runner.
	Runner *pipeline.Runner
	Params layout.Params
	Logger *log.Logger
}

// Server is an http.Handler.
type Server struct {
	dir     string
	docPath string
	runner  *pipeline.Runner
	params  layout.Params
	logger  *log.Logger
	router  chi.Router

	mu     sync.Mutex
	doc    *graph.Document
	loaded time.Time
}

// New checks that the directory exists and builds the router. The document
// itself is loaded lazily.
func New(cfg Config) (*Server, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "serve directory %s", cfg.Dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", cfg.Dir)
	}

	s := &Server{
		dir:     cfg.Dir,
		docPath: cfg.Document,
		runner:  cfg.Runner,
		params:  cfg.Params.WithDefaults(),
		logger:  cfg.Logger,
	}
	if s.docPath == "" {
		s.docPath = filepath.Join(cfg.Dir, DocumentName)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/document", s.handleDocument)
		r.Get("/layout", s.handleLayout)
	})
	r.Handle("/*", http.FileServer(http.Dir(s.dir)))
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, if non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// document returns the current document, reloading it when the file changed.
func (s *Server) document() (*graph.Document, error) {
	info, err := os.Stat(s.docPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no document at %s", s.docPath)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil && info.ModTime().Equal(s.loaded) {
		return s.doc, nil
	}
	doc, err := graph.ReadFile(s.docPath)
	if err != nil {
		return nil, err
	}
	s.doc, s.loaded = doc, info.ModTime()
	s.logger.Debug("loaded document", "path", s.docPath, "nodes", len(doc.Nodes))
	return doc, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.String(),
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.document()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	depth, err := parseDepth(r.URL.Query().Get("depth"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := r.URL.Query().Get("layout")
	if name != "" {
		if _, err := layout.ParseKind(name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	doc, err := s.document()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{Layout: name, Params: s.params}
	v, hit, err := s.runner.View(r.Context(), doc, opts.Kind(doc), depth, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeJSON(w, http.StatusOK, v)
}

// parseDepth accepts an empty string (full detail) or any integer, which is
// clamped onto the depth levels.
func parseDepth(raw string) (int, error) {
	if raw == "" {
		return graph.DepthDetail, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidDepth, "depth must be an integer, got %q", raw)
	}
	return graph.ClampDepth(n), nil
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsInputError(err):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		status = http.StatusNotFound
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]errorBody{"error": {
		Code:      string(code),
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
