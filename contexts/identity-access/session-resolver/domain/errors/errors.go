package errors

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignUpInput = errors.New("invalid sign-up input")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrResolverClosed     = errors.New("session resolver closed")
	ErrRoleLookupFailed   = errors.New("role lookup failed")
	ErrNoSession          = errors.New("no active session")
)
