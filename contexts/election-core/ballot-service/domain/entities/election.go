package entities

import "time"

// Position is a contested office voters cast one ballot for.
type Position struct {
	PositionID   string `json:"position_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

// Candidate always belongs to exactly one position; the protocol never moves
// it after creation.
type Candidate struct {
	CandidateID string `json:"candidate_id"`
	PositionID  string `json:"position_id"`
	Name        string `json:"name"`
	Manifesto   string `json:"manifesto"`
	ImageRef    string `json:"image_ref"`
}

// Ballot is an immutable voter-to-candidate record for one position. At most
// one ballot exists per (voter, position) pair; the storage uniqueness
// constraint enforces this globally.
type Ballot struct {
	BallotID    string    `json:"ballot_id"`
	VoterID     string    `json:"voter_id"`
	PositionID  string    `json:"position_id"`
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}

// PublicationRecord marks a position's aggregate results as visible. One
// record per position.
type PublicationRecord struct {
	PositionID  string    `json:"position_id"`
	PublishedBy string    `json:"published_by"`
	PublishedAt time.Time `json:"published_at"`
}

// VoteCount is one aggregation row; candidates with zero ballots appear with
// Count zero.
type VoteCount struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Count       int    `json:"count"`
}

// PositionResult is the aggregate for one position. WinnerCandidateID is
// empty when no ballots have been cast.
type PositionResult struct {
	PositionID        string      `json:"position_id"`
	TotalVotes        int         `json:"total_votes"`
	Counts            []VoteCount `json:"counts"`
	WinnerCandidateID string      `json:"winner_candidate_id,omitempty"`
}

// VoterProgress reports how far a voter is through the open positions.
type VoterProgress struct {
	VoterID       string `json:"voter_id"`
	BallotsCast   int    `json:"ballots_cast"`
	OpenPositions int    `json:"open_positions"`
}
