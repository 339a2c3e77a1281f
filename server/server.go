// Package server exposes the index engine over HTTP: POST /query scores
// a set of codes against the cached index and returns ranked results,
// POST /build assembles a new block file from posted song codes, and
// GET /metrics serves the process's Prometheus collectors. This is the
// Go analogue of wrapping the engine for out-of-process callers, the
// role echoprint_server_python.c plays for the original C library.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soundhash/fpindex/config"
	"github.com/soundhash/fpindex/index"
	"github.com/soundhash/fpindex/metrics"
)

// Resolver returns the Index a request should be scored against. A
// closure over a cache.Manager's Get (bound to a fixed path list), or
// over a watch.Watcher's Current (returning an error while it is nil),
// has the shape New expects.
type Resolver func() (*index.Index, error)

// Server answers HTTP requests against whatever Index its Resolver
// currently returns.
type Server struct {
	log     *slog.Logger
	resolve Resolver
	metrics *metrics.Metrics
	onBuild func(path string) // invalidates any cached Index for path; nil-safe no-op otherwise
}

// New builds a Server. resolve is called once per /query request to
// obtain the Index to score against; onBuild, if non-nil, is called
// after a successful /build so a cache.Manager can drop its now-stale
// entry.
func New(log *slog.Logger, resolve Resolver, m *metrics.Metrics, onBuild func(path string)) *Server {
	return &Server{log: log, resolve: resolve, metrics: m, onBuild: onBuild}
}

// Handler returns the Server's routes mounted on a fresh ServeMux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("POST /build", s.handleBuild)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

type queryRequest struct {
	Codes      []uint32 `json:"codes"`
	K          int      `json:"k"`
	Similarity string   `json:"similarity"`
}

type queryResponse struct {
	Results []index.Result `json:"results"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	sim, err := config.ParseSimilarity(req.Similarity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ix, err := s.resolve()
	if err != nil {
		s.log.Error("resolving index", "error", err)
		http.Error(w, "index unavailable", http.StatusServiceUnavailable)
		return
	}

	results := index.Query(ix, req.Codes, sim, req.K)
	s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	s.metrics.QueryResults.Observe(float64(len(results)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queryResponse{Results: results})
}

type buildRequest struct {
	Songs [][]uint32 `json:"songs"`
	Path  string     `json:"path"`
}

type buildResponse struct {
	BuildID string `json:"build_id"`
	NSongs  uint32 `json:"n_songs"`
	NCodes  uint32 `json:"n_codes"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	buildID := uuid.NewString()
	log := s.log.With("build_id", buildID)

	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	if err := index.BuildAndWriteBlock(req.Songs, req.Path, false); err != nil {
		log.Error("building block", "error", err, "path", req.Path)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if s.onBuild != nil {
		s.onBuild(req.Path)
	}
	s.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	log.Info("built block", "path", req.Path, "n_songs", len(req.Songs))

	f, err := os.Open(req.Path)
	if err != nil {
		log.Error("reopening built block for response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	b, err := index.LoadBlock(f)
	if err != nil {
		log.Error("reloading built block for response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buildResponse{BuildID: buildID, NSongs: b.NSongs(), NCodes: b.NCodes()})
}
