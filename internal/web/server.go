package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/chenkai036/aoc/internal/fs"
	"github.com/chenkai036/aoc/internal/logging"
	"github.com/chenkai036/aoc/internal/metrics"
	"github.com/chenkai036/aoc/internal/model"
	"github.com/chenkai036/aoc/internal/query"
)

// DefaultAddr is where StartServer listens when no address is given.
const DefaultAddr = "localhost:8080"

// Server serves a solved filesystem as JSON.
type Server struct {
	store  *fs.Store
	result model.Result
	nodes  map[string]*model.TreeNode
	logger *zap.Logger
	mux    *http.ServeMux
}

// NewServer solves store and returns a server for the result.
func NewServer(store *fs.Store, logger *zap.Logger) (*Server, error) {
	result, err := query.Summarize(store)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		store:  store,
		result: result,
		nodes:  make(map[string]*model.TreeNode),
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.index(result.Root)

	s.mux.HandleFunc("/api/tree", s.handleTree)
	s.mux.HandleFunc("/api/answers", s.handleAnswers)
	s.mux.HandleFunc("/api/dir", s.handleDir)
	s.mux.Handle("/metrics", metrics.Handler())
	return s, nil
}

func (s *Server) index(node *model.TreeNode) {
	if node == nil || !node.IsDir {
		return
	}
	s.nodes[node.Path] = node
	for _, child := range node.Children {
		s.index(child)
	}
}

// unmatchedRoute labels requests that no route handles.
const unmatchedRoute = "other"

// ServeHTTP logs and counts every request before routing it. Requests are
// counted by route pattern, not by raw path.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logging.Middleware(s.logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(s.route(r), rec.status)
	})).ServeHTTP(w, r)
}

func (s *Server) route(r *http.Request) string {
	if _, pattern := s.mux.Handler(r); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// StartServer serves the solved store on addr until the listener fails.
// The startup banner is written to out.
func StartServer(addr string, store *fs.Store, out io.Writer) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv, err := NewServer(store, logging.L())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Starting day7 web server at http://%s\n", addr)
	fmt.Fprintf(out, "Try http://%s/api/answers in your browser.\n", addr)
	return http.ListenAndServe(addr, srv)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, s.result)
}

func (s *Server) handleAnswers(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, struct {
		model.Answers
		Version string `json:"version"`
	}{
		Answers: s.result.Answers,
		Version: model.Version,
	})
}

func (s *Server) handleDir(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	d, ok := fs.Resolve(s.store, path)
	if !ok {
		http.Error(w, fmt.Sprintf("no directory %q", path), http.StatusNotFound)
		return
	}
	node, ok := s.nodes[fs.AbsPath(s.store, d)]
	if !ok {
		http.Error(w, fmt.Sprintf("no directory %q", path), http.StatusNotFound)
		return
	}
	writeJSON(w, node)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
