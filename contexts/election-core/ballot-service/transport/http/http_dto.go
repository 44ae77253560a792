package http

import "ballotbox/contexts/election-core/ballot-service/domain/entities"

// ErrorResponse is the uniform error body for ballot endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CastBallotRequest carries one vote for one position.
type CastBallotRequest struct {
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
}

// CastBallotResponse confirms a recorded ballot.
type CastBallotResponse struct {
	BallotID   string `json:"ballot_id"`
	PositionID string `json:"position_id"`
	CastAt     string `json:"cast_at"`
}

// PublishResultsRequest marks a position's results visible.
type PublishResultsRequest struct {
	PositionID string `json:"position_id"`
}

// PublishResultsResponse reports the publication outcome; AlreadyPublished is
// true when an earlier publish absorbed this call.
type PublishResultsResponse struct {
	PositionID       string `json:"position_id"`
	PublishedBy      string `json:"published_by"`
	PublishedAt      string `json:"published_at"`
	AlreadyPublished bool   `json:"already_published"`
}

// PositionListResponse wraps the open positions listing.
type PositionListResponse struct {
	Positions []entities.Position `json:"positions"`
}

// CandidateListResponse wraps a position's candidate listing.
type CandidateListResponse struct {
	PositionID string               `json:"position_id"`
	Candidates []entities.Candidate `json:"candidates"`
}

// HasVotedResponse reports per-position voting status for the caller.
type HasVotedResponse struct {
	PositionID string `json:"position_id"`
	HasVoted   bool   `json:"has_voted"`
}

// ResultsResponse exposes a published aggregate. Published is false, and the
// result omitted, when the position has no publication record.
type ResultsResponse struct {
	Published bool                     `json:"published"`
	Result    *entities.PositionResult `json:"result,omitempty"`
}

// ProgressResponse reports how many open positions the caller has voted in.
type ProgressResponse struct {
	VoterID       string `json:"voter_id"`
	BallotsCast   int    `json:"ballots_cast"`
	OpenPositions int    `json:"open_positions"`
}
