// Package server exposes the orchestrator over HTTP.
//
// The transport stays thin: it decodes requests, delegates to the
// orchestration service, and maps the failure taxonomy onto HTTP status
// codes. All diagnostics it echoes are already bounded by the service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopstack/shopstack/internal/provisioning"
	"github.com/shopstack/shopstack/internal/store"
)

// Orchestrator is the provisioning service consumed by the transport.
type Orchestrator interface {
	Provision(ctx context.Context, req provisioning.ProvisionRequest) (store.Record, error)
	Deprovision(ctx context.Context, id string) (provisioning.DeprovisionResult, error)
	List() []store.Record
}

// Info describes the running service for the root endpoint.
type Info struct {
	RepoRoot    string `json:"repo_root"`
	ChartPath   string `json:"chart_path"`
	ValuesLocal string `json:"values_local"`
	ValuesProd  string `json:"values_prod"`
}

// Server wires the orchestrator into an HTTP handler.
type Server struct {
	svc            Orchestrator
	info           Info
	allowedOrigins map[string]bool
	log            provisioning.Logger
}

// New creates the HTTP server facade.
func New(svc Orchestrator, info Info, allowedOrigins []string, log provisioning.Logger) *Server {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Server{svc: svc, info: info, allowedOrigins: origins, log: log}
}

// Handler returns the routed HTTP handler with CORS and access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /stores", s.handleCreateStore)
	mux.HandleFunc("GET /stores", s.handleListStores)
	mux.HandleFunc("DELETE /stores/{id}", s.handleDeleteStore)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return s.cors(s.logRequests(mux))
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	var req provisioning.ProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	rec, err := s.svc.Provision(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListStores(w http.ResponseWriter, _ *http.Request) {
	records := s.svc.List()
	if records == nil {
		records = []store.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDeleteStore(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Deprovision(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		Info
	}{Message: "orchestrator up", Info: s.info})
}

// writeError maps the failure taxonomy onto HTTP status categories.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var perr *provisioning.Error
	if errors.As(err, &perr) {
		writeJSON(w, statusForKind(perr.Kind), errorResponse{Detail: perr.Detail})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: provisioning.Truncate(err.Error())})
}

func statusForKind(kind provisioning.Kind) int {
	switch kind {
	case provisioning.KindInvalidInput:
		return http.StatusBadRequest
	case provisioning.KindRoutingConflict:
		return http.StatusConflict
	case provisioning.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cors allows the configured storefront origins, including preflight.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if s.log != nil {
			s.log.Printf("%s %s", r.Method, r.URL.Path)
		}
	})
}
