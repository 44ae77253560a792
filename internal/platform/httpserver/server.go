package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	ballotservice "ballotbox/contexts/election-core/ballot-service"
	registryservice "ballotbox/contexts/election-core/registry-service"
	sessionresolver "ballotbox/contexts/identity-access/session-resolver"
	sessionentities "ballotbox/contexts/identity-access/session-resolver/domain/entities"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "ballotbox/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	session  sessionresolver.Module
	ballot   ballotservice.Module
	registry registryservice.Module
}

func New(
	session sessionresolver.Module,
	ballot ballotservice.Module,
	registry registryservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		session:  session,
		ballot:   ballot,
		registry: registry,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/auth/v1/signup", s.handleSignUp)
	s.mux.HandleFunc("POST /api/auth/v1/signin", s.handleSignIn)
	s.mux.HandleFunc("POST /api/auth/v1/signout", s.handleSignOut)
	s.mux.HandleFunc("GET /api/auth/v1/session", s.handleSession)

	s.mux.HandleFunc("GET /api/election/v1/positions", s.handleListPositions)
	s.mux.HandleFunc("GET /api/election/v1/positions/{position_id}/candidates", s.handleListCandidates)
	s.mux.HandleFunc("GET /api/election/v1/positions/{position_id}/voted", s.handleHasVoted)
	s.mux.HandleFunc("POST /api/election/v1/positions/{position_id}/ballots", s.handleCastBallot)
	s.mux.HandleFunc("POST /api/election/v1/positions/{position_id}/publish", s.handlePublishResults)
	s.mux.HandleFunc("GET /api/election/v1/positions/{position_id}/results", s.handleGetResults)
	s.mux.HandleFunc("GET /api/election/v1/progress", s.handleVoterProgress)

	s.mux.HandleFunc("POST /api/registry/v1/positions", s.handleRegistryCreatePosition)
	s.mux.HandleFunc("GET /api/registry/v1/positions", s.handleRegistryListPositions)
	s.mux.HandleFunc("POST /api/registry/v1/positions/{position_id}/active", s.handleRegistrySetPositionActive)
	s.mux.HandleFunc("DELETE /api/registry/v1/positions/{position_id}", s.handleRegistryDeletePosition)
	s.mux.HandleFunc("POST /api/registry/v1/candidates", s.handleRegistryAddCandidate)
	s.mux.HandleFunc("GET /api/registry/v1/candidates", s.handleRegistryListCandidates)
	s.mux.HandleFunc("DELETE /api/registry/v1/candidates/{candidate_id}", s.handleRegistryDeleteCandidate)
}

// requireVoter resolves the caller identity from the X-User-Id header. An
// empty result means the error response has already been written.
func (s *Server) requireVoter(w http.ResponseWriter, r *http.Request) string {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return ""
	}
	return userID
}

// requireAdmin gates admin-only routes through the role policy: lookup
// failures degrade the caller to voter, which this boundary rejects.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) string {
	userID := s.requireVoter(w, r)
	if userID == "" {
		return ""
	}
	role := s.session.Resolver.ResolveRole(r.Context(), userID)
	if role != sessionentities.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden", "admin role is required")
		return ""
	}
	return userID
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
