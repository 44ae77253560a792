package http

import "ballotbox/contexts/election-core/registry-service/domain/entities"

// ErrorResponse is the uniform error body for registry endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreatePositionRequest opens a new contested position.
type CreatePositionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SetPositionActiveRequest toggles ballot acceptance for a position.
type SetPositionActiveRequest struct {
	Active bool `json:"active"`
}

// AddCandidateRequest registers a candidate; the image is optional and
// carried base64-free as raw bytes by multipart uploads at the server edge.
type AddCandidateRequest struct {
	PositionID string `json:"position_id"`
	Name       string `json:"name"`
	Manifesto  string `json:"manifesto"`
	Image      *ImageUpload
}

// ImageUpload is a decoded multipart file part.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// PositionResponse echoes a created or listed position.
type PositionResponse struct {
	Position entities.Position `json:"position"`
}

// PositionListResponse wraps the full catalog listing.
type PositionListResponse struct {
	Positions []entities.Position `json:"positions"`
}

// CandidateResponse echoes a registered candidate.
type CandidateResponse struct {
	Candidate entities.Candidate `json:"candidate"`
}

// CandidateListResponse wraps the full candidate listing.
type CandidateListResponse struct {
	Candidates []entities.Candidate `json:"candidates"`
}

// StatusResponse acknowledges mutations without a body of their own.
type StatusResponse struct {
	Status string `json:"status"`
}
