package memory

import (
	"context"
	"sync"
	"time"

	"ballotbox/contexts/identity-access/session-resolver/domain/entities"
	domainerrors "ballotbox/contexts/identity-access/session-resolver/domain/errors"

	"github.com/google/uuid"
)

// Store is an in-memory auth backend implementing the gateway, role-directory
// and profile ports. It is intended for tests and local development wiring.
//
// Test hooks: SetRoleLookupGate blocks lookups until released (for ordering
// scenarios), FailRoleLookups forces lookup errors, RoleLookupCount reports
// how many lookups were performed.
type Store struct {
	mu sync.Mutex

	accounts    map[string]account // keyed by email
	assignments map[string][]string
	profiles    map[string]entities.Profile
	current     *entities.Session

	failRoleLookups bool
	roleLookupGate  chan struct{}
	roleLookups     int

	events chan entities.SessionEvent
}

type account struct {
	identityID string
	password   string
}

func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]account),
		assignments: make(map[string][]string),
		profiles:    make(map[string]entities.Profile),
		events:      make(chan entities.SessionEvent, 64),
	}
}

// SeedAccount registers credentials and returns the identity id.
func (s *Store) SeedAccount(email string, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.accounts[email]; ok {
		return existing.identityID
	}
	id := uuid.NewString()
	s.accounts[email] = account{identityID: id, password: password}
	return id
}

// SetRoleAssignments replaces the role labels for an identity.
func (s *Store) SetRoleAssignments(identityID string, labels ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[identityID] = append([]string(nil), labels...)
}

// SetCurrentSession seeds the session returned by CurrentSession.
func (s *Store) SetCurrentSession(session *entities.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = session
}

// FailRoleLookups toggles forced role-lookup failures.
func (s *Store) FailRoleLookups(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRoleLookups = fail
}

// SetRoleLookupGate installs a gate channel; every ListRoleAssignments call
// blocks until the channel is closed.
func (s *Store) SetRoleLookupGate(gate chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleLookupGate = gate
}

// RoleLookupCount reports how many role lookups were performed.
func (s *Store) RoleLookupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roleLookups
}

// NewSessionFor builds a session for a seeded account.
func (s *Store) NewSessionFor(email string) *entities.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok {
		return nil
	}
	return &entities.Session{
		Identity:     entities.Identity{ID: acct.identityID, Email: email},
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
}

// Emit pushes a raw event into the stream, preserving arrival order.
func (s *Store) Emit(event entities.SessionEvent) {
	s.events <- event
}

func (s *Store) CurrentSession(_ context.Context) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, nil
	}
	copied := *s.current
	return &copied, nil
}

func (s *Store) SignIn(_ context.Context, email string, password string) (*entities.Session, error) {
	s.mu.Lock()
	acct, ok := s.accounts[email]
	if !ok || acct.password != password {
		s.mu.Unlock()
		return nil, domainerrors.ErrInvalidCredentials
	}
	session := &entities.Session{
		Identity:     entities.Identity{ID: acct.identityID, Email: email},
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	s.current = session
	s.mu.Unlock()
	s.events <- entities.SessionEvent{Kind: entities.EventSignedIn, Session: session}
	copied := *session
	return &copied, nil
}

func (s *Store) SignUp(_ context.Context, email string, password string) (*entities.Session, error) {
	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		return nil, domainerrors.ErrInvalidSignUpInput
	}
	id := uuid.NewString()
	s.accounts[email] = account{identityID: id, password: password}
	session := &entities.Session{
		Identity:     entities.Identity{ID: id, Email: email},
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	s.current = session
	s.mu.Unlock()
	s.events <- entities.SessionEvent{Kind: entities.EventSignedIn, Session: session}
	copied := *session
	return &copied, nil
}

func (s *Store) SignOut(_ context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.events <- entities.SessionEvent{Kind: entities.EventSignedOut}
	return nil
}

func (s *Store) Events() <-chan entities.SessionEvent {
	return s.events
}

func (s *Store) ListRoleAssignments(_ context.Context, identityID string) ([]string, error) {
	s.mu.Lock()
	s.roleLookups++
	gate := s.roleLookupGate
	fail := s.failRoleLookups
	labels := append([]string(nil), s.assignments[identityID]...)
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail {
		return nil, domainerrors.ErrRoleLookupFailed
	}
	return labels, nil
}

func (s *Store) CreateProfile(_ context.Context, profile entities.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	s.profiles[profile.IdentityID] = profile
	return nil
}

func (s *Store) GetProfile(_ context.Context, identityID string) (entities.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[identityID]
	if !ok {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
