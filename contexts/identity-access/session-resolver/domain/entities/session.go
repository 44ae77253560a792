package entities

import "time"

// Role is the coarse privilege class resolved for an identity.
type Role string

const (
	RoleUnknown Role = "unknown"
	RoleVoter   Role = "voter"
	RoleAdmin   Role = "admin"
)

// Identity is the authenticated principal for the current session.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session carries the identity plus the transport credential issued by the
// auth backend. Token fields change on refresh; the identity does not.
type Session struct {
	Identity     Identity  `json:"identity"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Snapshot is the single source of truth the rest of the application reads.
// Ready stays false until the first resolution completes and never reverts
// except across a sign-out/sign-in transition.
type Snapshot struct {
	Identity *Identity `json:"identity,omitempty"`
	Role     Role      `json:"role"`
	Ready    bool      `json:"ready"`
}

// EventKind enumerates the session-change notifications pushed by the auth
// backend.
type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// SessionEvent is one entry in the backend-pushed session event stream.
type SessionEvent struct {
	Kind    EventKind
	Session *Session
}

// Profile is the voter-facing registration record created at sign-up.
type Profile struct {
	IdentityID         string    `json:"identity_id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Department         string    `json:"department"`
	RegistrationNumber string    `json:"registration_number"`
	PhoneNumber        string    `json:"phone_number"`
	CreatedAt          time.Time `json:"created_at"`
}
