package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	balloterrors "ballotbox/contexts/election-core/ballot-service/domain/errors"
	ballothttp "ballotbox/contexts/election-core/ballot-service/transport/http"
)

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballot.Handler.ListPositionsHandler(r.Context())
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballot.Handler.ListCandidatesHandler(r.Context(), r.PathValue("position_id"))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	voterID := s.requireVoter(w, r)
	if voterID == "" {
		return
	}
	resp, err := s.ballot.Handler.HasVotedHandler(r.Context(), voterID, r.PathValue("position_id"))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	voterID := s.requireVoter(w, r)
	if voterID == "" {
		return
	}
	var req ballothttp.CastBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBallotError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.PositionID = r.PathValue("position_id")

	resp, err := s.ballot.Handler.CastBallotHandler(r.Context(), voterID, req)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handlePublishResults(w http.ResponseWriter, r *http.Request) {
	adminID := s.requireAdmin(w, r)
	if adminID == "" {
		return
	}
	req := ballothttp.PublishResultsRequest{PositionID: r.PathValue("position_id")}
	resp, err := s.ballot.Handler.PublishResultsHandler(r.Context(), adminID, req)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballot.Handler.ResultsHandler(r.Context(), r.PathValue("position_id"))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoterProgress(w http.ResponseWriter, r *http.Request) {
	voterID := s.requireVoter(w, r)
	if voterID == "" {
		return
	}
	resp, err := s.ballot.Handler.VoterProgressHandler(r.Context(), voterID)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBallotDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, balloterrors.ErrDuplicateVote):
		writeBallotError(w, http.StatusConflict, "already_voted", "you have already voted for this position")
	case errors.Is(err, balloterrors.ErrInvalidBallotInput),
		errors.Is(err, balloterrors.ErrInvalidPublishInput):
		writeBallotError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, balloterrors.ErrPositionNotFound),
		errors.Is(err, balloterrors.ErrCandidateNotFound):
		writeBallotError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, balloterrors.ErrPositionInactive),
		errors.Is(err, balloterrors.ErrCandidateNotInPosition):
		writeBallotError(w, http.StatusUnprocessableEntity, "invalid_ballot", err.Error())
	case errors.Is(err, balloterrors.ErrCastFailed):
		writeBallotError(w, http.StatusInternalServerError, "cast_failed", err.Error())
	default:
		writeBallotError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBallotError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ballothttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
