package errors

import "errors"

var (
	ErrInvalidBallotInput     = errors.New("invalid ballot input")
	ErrInvalidPublishInput    = errors.New("invalid publish input")
	ErrPositionNotFound       = errors.New("position not found")
	ErrPositionInactive       = errors.New("position is not open for voting")
	ErrCandidateNotFound      = errors.New("candidate not found")
	ErrCandidateNotInPosition = errors.New("candidate does not belong to position")

	// ErrDuplicateVote is an expected outcome, not a defect: the storage
	// uniqueness constraint rejected a second ballot for the same voter and
	// position.
	ErrDuplicateVote = errors.New("ballot already cast for this position")

	// ErrCastFailed covers every other ballot insert failure; the caller may
	// retry.
	ErrCastFailed = errors.New("ballot cast failed")

	// ErrAlreadyPublished is internal to the repository boundary; the publish
	// use case converts it into an idempotent success.
	ErrAlreadyPublished = errors.New("results already published")
)
