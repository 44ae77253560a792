package errors

import "errors"

var (
	ErrInvalidPositionInput  = errors.New("position title is required")
	ErrInvalidCandidateInput = errors.New("candidate name and position are required")
	ErrPositionNotFound      = errors.New("position not found")
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrImageUploadFailed     = errors.New("candidate image upload failed")
)
