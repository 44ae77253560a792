package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	registryerrors "ballotbox/contexts/election-core/registry-service/domain/errors"
	registryhttp "ballotbox/contexts/election-core/registry-service/transport/http"
)

// maxImageUploadBytes bounds candidate image parts; larger uploads are
// rejected at the edge.
const maxImageUploadBytes = 5 << 20

func (s *Server) handleRegistryCreatePosition(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == "" {
		return
	}
	var req registryhttp.CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.CreatePositionHandler(r.Context(), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRegistryListPositions(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == "" {
		return
	}
	resp, err := s.registry.Handler.ListPositionsHandler(r.Context())
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegistrySetPositionActive(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == "" {
		return
	}
	var req registryhttp.SetPositionActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.SetPositionActiveHandler(r.Context(), r.PathValue("position_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegistryDeletePosition(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == "" {
		return
	}
	resp, err := s.registry.Handler.DeletePositionHandler(r.Context(), r.PathValue("position_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRegistryAddCandidate accepts multipart form data so the optional
// image rides along with the candidate fields in one request.
func (s *Server) handleRegistryAddCandidate(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == "" {
		return
	}
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_form", "request body must be multipart form data")
		return
	}
	req := registryhttp.AddCandidateRequest{
		PositionID: strings.TrimSpace(r.FormValue("position_id")),
		Name:       strings.TrimSpace(r.FormValue("name")),
		Manifesto:  r.FormValue("manifesto"),
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxImageUploadBytes))
		if readErr != nil {
			writeRegistryError(w, http.StatusBadRequest, "invalid_image", "candidate image could not be read")
			return
		}
		req.Image = &registryhttp.ImageUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	resp, err := s.registry.Handler.AddCandidateHandler(r.Context(), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRegistryListCandidates(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == "" {
		return
	}
	resp, err := s.registry.Handler.ListCandidatesHandler(r.Context())
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegistryDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == "" {
		return
	}
	resp, err := s.registry.Handler.DeleteCandidateHandler(r.Context(), r.PathValue("candidate_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrInvalidPositionInput),
		errors.Is(err, registryerrors.ErrInvalidCandidateInput):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, registryerrors.ErrPositionNotFound),
		errors.Is(err, registryerrors.ErrCandidateNotFound):
		writeRegistryError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, registryerrors.ErrImageUploadFailed):
		writeRegistryError(w, http.StatusBadGateway, "image_upload_failed", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
