package entities

import "time"

// Position is a contested office managed by election administrators.
type Position struct {
	PositionID   string    `json:"position_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DisplayOrder int       `json:"display_order"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Candidate is registered under exactly one position.
type Candidate struct {
	CandidateID string    `json:"candidate_id"`
	PositionID  string    `json:"position_id"`
	Name        string    `json:"name"`
	Manifesto   string    `json:"manifesto"`
	ImageRef    string    `json:"image_ref"`
	CreatedAt   time.Time `json:"created_at"`
}

// CandidateImage is a raw upload attached during candidate registration.
type CandidateImage struct {
	FileName    string
	ContentType string
	Data        []byte
}
