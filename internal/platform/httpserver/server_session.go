package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	sessionerrors "ballotbox/contexts/identity-access/session-resolver/domain/errors"
	sessionhttp "ballotbox/contexts/identity-access/session-resolver/transport/http"
)

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.session.Handler.SignUpHandler(r.Context(), req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.session.Handler.SignInHandler(r.Context(), req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	resp, err := s.session.Handler.SignOutHandler(r.Context())
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Handler.SessionHandler(r.Context()))
}

func writeSessionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionerrors.ErrInvalidCredentials):
		writeSessionError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, sessionerrors.ErrInvalidSignUpInput):
		writeSessionError(w, http.StatusBadRequest, "invalid_signup", err.Error())
	case errors.Is(err, sessionerrors.ErrNoSession):
		writeSessionError(w, http.StatusUnauthorized, "no_session", err.Error())
	case errors.Is(err, sessionerrors.ErrResolverClosed):
		writeSessionError(w, http.StatusServiceUnavailable, "shutting_down", err.Error())
	default:
		// Auth backend failures surface their message verbatim so the caller
		// can display it.
		writeSessionError(w, http.StatusBadGateway, "auth_backend_error", err.Error())
	}
}

func writeSessionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, sessionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
