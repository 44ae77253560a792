package ports

import (
	"context"
	"time"

	"ballotbox/contexts/identity-access/session-resolver/domain/entities"
)

// AuthGateway abstracts the managed auth backend: one-shot session fetch,
// credentialed sign-in/sign-up/sign-out, and the pushed event stream.
type AuthGateway interface {
	// CurrentSession returns the active session, or (nil, nil) when no
	// session is established.
	CurrentSession(ctx context.Context) (*entities.Session, error)
	SignIn(ctx context.Context, email string, password string) (*entities.Session, error)
	SignUp(ctx context.Context, email string, password string) (*entities.Session, error)
	SignOut(ctx context.Context) error
	// Events delivers session-change notifications strictly in arrival order.
	// The channel is closed when the gateway shuts down.
	Events() <-chan entities.SessionEvent
}

// RoleDirectory looks up the role labels assigned to an identity. An identity
// may hold more than one label; policy interpretation stays in the resolver.
type RoleDirectory interface {
	ListRoleAssignments(ctx context.Context, identityID string) ([]string, error)
}

// ProfileStore persists voter registration records created at sign-up.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile entities.Profile) error
	GetProfile(ctx context.Context, identityID string) (entities.Profile, error)
}

type Clock interface {
	Now() time.Time
}
