package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"ballotbox/contexts/identity-access/session-resolver/domain/entities"
	domainerrors "ballotbox/contexts/identity-access/session-resolver/domain/errors"
	"ballotbox/contexts/identity-access/session-resolver/ports"
)

// Resolver owns the session snapshot. It is the only writer of identity/role
// state; everything else observes via Snapshot and Watch.
//
// Two sources feed it: the one-shot Initialize fetch and the backend event
// stream. The two can overlap, so every role resolution carries a generation
// token and a result is applied only while its generation is still current.
// A genuine new sign-in or a sign-out bumps the generation, which retires any
// resolution still in flight.
type Resolver struct {
	gateway  ports.AuthGateway
	roles    ports.RoleDirectory
	profiles ports.ProfileStore
	logger   *slog.Logger

	mu             sync.Mutex
	snapshot       entities.Snapshot
	session        *entities.Session
	lastIdentityID string
	initialized    bool
	closed         bool
	generation     uint64
	watchers       []chan entities.Snapshot
}

// Dependencies captures the ports required by NewResolver.
type Dependencies struct {
	Gateway  ports.AuthGateway
	Roles    ports.RoleDirectory
	Profiles ports.ProfileStore
	Logger   *slog.Logger
}

func NewResolver(deps Dependencies) *Resolver {
	return &Resolver{
		gateway:  deps.Gateway,
		roles:    deps.Roles,
		profiles: deps.Profiles,
		logger:   ResolveLogger(deps.Logger),
		snapshot: entities.Snapshot{Role: entities.RoleUnknown},
	}
}

// Initialize performs the startup one-shot session fetch and, when an
// identity is present, resolves its role. Ready is set exactly once here even
// when the fetch or the role lookup fails; failures degrade to no identity or
// to the voter role, never to an error for the caller.
func (r *Resolver) Initialize(ctx context.Context) (entities.Snapshot, error) {
	r.mu.Lock()
	if r.closed {
		snap := r.snapshot
		r.mu.Unlock()
		return snap, domainerrors.ErrResolverClosed
	}
	gen := r.generation
	r.mu.Unlock()

	session, err := r.gateway.CurrentSession(ctx)
	if err != nil {
		r.logger.Warn("current session fetch failed; starting signed out",
			"event", "session_initialize_fetch_failed",
			"module", "identity-access/session-resolver",
			"layer", "application",
			"error", err.Error(),
		)
		session = nil
	}

	if session != nil {
		// Record the identity before the role lookup so a SIGNED_IN event for
		// the same identity arriving mid-resolution is deduplicated instead of
		// triggering a second lookup.
		r.mu.Lock()
		if r.closed || gen != r.generation {
			snap := r.snapshot
			r.initialized = true
			r.mu.Unlock()
			return snap, nil
		}
		r.lastIdentityID = session.Identity.ID
		r.mu.Unlock()
	}

	role := entities.RoleUnknown
	if session != nil {
		role = r.ResolveRole(ctx, session.Identity.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = true
	if r.closed || gen != r.generation {
		// A sign-out or a newer sign-in won while we were resolving; the
		// winning path already owns the snapshot.
		return r.snapshot, nil
	}
	if session != nil {
		identity := session.Identity
		r.session = session
		r.snapshot.Identity = &identity
		r.snapshot.Role = role
	}
	r.snapshot.Ready = true
	r.notifyLocked()
	r.logger.Info("session initialized",
		"event", "session_initialized",
		"module", "identity-access/session-resolver",
		"layer", "application",
		"signed_in", session != nil,
		"role", string(r.snapshot.Role),
	)
	return r.snapshot, nil
}

// HandleEvent applies one session-change event. Callers must invoke it in
// arrival order; Run does so for the gateway stream.
func (r *Resolver) HandleEvent(ctx context.Context, event entities.SessionEvent) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}

	switch event.Kind {
	case entities.EventTokenRefreshed:
		// Credential rotation only. Role and readiness are untouched and no
		// lookup is triggered.
		if event.Session != nil {
			r.session = event.Session
		}
		r.mu.Unlock()
		return

	case entities.EventSignedOut:
		r.generation++
		r.lastIdentityID = ""
		r.session = nil
		r.snapshot.Identity = nil
		r.snapshot.Role = entities.RoleUnknown
		r.snapshot.Ready = true
		r.notifyLocked()
		r.mu.Unlock()
		r.logger.Info("session cleared",
			"event", "session_signed_out",
			"module", "identity-access/session-resolver",
			"layer", "application",
		)
		return

	case entities.EventSignedIn:
		if event.Session == nil {
			r.mu.Unlock()
			return
		}
		identityID := event.Session.Identity.ID
		if !r.initialized && (r.lastIdentityID == "" || identityID == r.lastIdentityID) {
			// Startup race: Initialize will resolve this identity itself.
			r.mu.Unlock()
			r.logger.Debug("signed-in event deduplicated during initialization",
				"event", "session_event_dedup_init",
				"module", "identity-access/session-resolver",
				"layer", "application",
				"identity_id", identityID,
			)
			return
		}
		if identityID == r.lastIdentityID {
			// Duplicate sign-in for the active identity: no refetch, no
			// readiness toggle.
			r.mu.Unlock()
			return
		}

		r.generation++
		gen := r.generation
		r.lastIdentityID = identityID
		identity := event.Session.Identity
		r.session = event.Session
		r.snapshot.Identity = &identity
		r.snapshot.Role = entities.RoleUnknown
		r.snapshot.Ready = false
		r.notifyLocked()
		r.mu.Unlock()

		role := r.ResolveRole(ctx, identityID)

		r.mu.Lock()
		if r.closed || gen != r.generation {
			r.mu.Unlock()
			return
		}
		r.snapshot.Role = role
		r.snapshot.Ready = true
		r.notifyLocked()
		r.mu.Unlock()
		r.logger.Info("session resolved for new sign-in",
			"event", "session_signed_in_resolved",
			"module", "identity-access/session-resolver",
			"layer", "application",
			"identity_id", identityID,
			"role", string(role),
		)
		return

	default:
		r.mu.Unlock()
	}
}

// ResolveRole queries the role assignments for an identity and applies the
// admin-priority policy: any "admin" label wins; otherwise the first
// assignment resolves, and an empty or unreadable set fails open to voter.
// Lookup failures never propagate.
func (r *Resolver) ResolveRole(ctx context.Context, identityID string) entities.Role {
	labels, err := r.roles.ListRoleAssignments(ctx, strings.TrimSpace(identityID))
	if err != nil {
		r.logger.Warn("role lookup failed; defaulting to voter",
			"event", "session_role_lookup_failed",
			"module", "identity-access/session-resolver",
			"layer", "application",
			"identity_id", identityID,
			"error", err.Error(),
		)
		return entities.RoleVoter
	}
	if len(labels) == 0 {
		return entities.RoleVoter
	}
	for _, label := range labels {
		if label == string(entities.RoleAdmin) {
			return entities.RoleAdmin
		}
	}
	// First assignment fallback: every non-admin label maps to voter.
	return entities.RoleVoter
}

// SignIn delegates to the gateway. The resulting SIGNED_IN event drives the
// role fetch; errors are returned verbatim for the caller to display.
func (r *Resolver) SignIn(ctx context.Context, email string, password string) error {
	_, err := r.gateway.SignIn(ctx, strings.TrimSpace(email), password)
	return err
}

// SignUp registers credentials with the backend and records the voter
// profile. Gateway errors are returned verbatim.
func (r *Resolver) SignUp(ctx context.Context, email string, password string, profile entities.Profile) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domainerrors.ErrInvalidSignUpInput
	}
	session, err := r.gateway.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	profile.IdentityID = session.Identity.ID
	profile.Email = email
	if err := r.profiles.CreateProfile(ctx, profile); err != nil {
		r.logger.Error("profile creation failed after sign-up",
			"event", "session_signup_profile_failed",
			"module", "identity-access/session-resolver",
			"layer", "application",
			"identity_id", session.Identity.ID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// SignOut invalidates the backend session and synchronously clears the local
// snapshot without waiting for the SIGNED_OUT event, which may be delayed or
// coalesced.
func (r *Resolver) SignOut(ctx context.Context) error {
	err := r.gateway.SignOut(ctx)
	if err != nil {
		r.logger.Warn("backend sign-out failed; clearing local session anyway",
			"event", "session_signout_backend_failed",
			"module", "identity-access/session-resolver",
			"layer", "application",
			"error", err.Error(),
		)
	}
	r.mu.Lock()
	r.generation++
	r.lastIdentityID = ""
	r.session = nil
	r.snapshot.Identity = nil
	r.snapshot.Role = entities.RoleUnknown
	r.snapshot.Ready = true
	r.notifyLocked()
	r.mu.Unlock()
	return err
}

// Snapshot returns the current resolved state.
func (r *Resolver) Snapshot() entities.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot
}

// Session returns the active transport credential, if any.
func (r *Resolver) Session() *entities.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil
	}
	copied := *r.session
	return &copied
}

// Watch registers an observer. Updates are delivered best-effort; a slow
// observer misses intermediate snapshots, never blocks the resolver.
func (r *Resolver) Watch() <-chan entities.Snapshot {
	ch := make(chan entities.Snapshot, 16)
	r.mu.Lock()
	r.watchers = append(r.watchers, ch)
	r.mu.Unlock()
	return ch
}

// Run consumes the gateway event stream until the context ends or the stream
// closes. Events are handled strictly sequentially.
func (r *Resolver) Run(ctx context.Context) {
	events := r.gateway.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			r.HandleEvent(ctx, event)
		}
	}
}

// Close tears the resolver down. The generation bump retires any resolution
// still in flight so a late result cannot apply itself to a recycled
// snapshot.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.generation++
	for _, ch := range r.watchers {
		close(ch)
	}
	r.watchers = nil
}

func (r *Resolver) notifyLocked() {
	for _, ch := range r.watchers {
		select {
		case ch <- r.snapshot:
		default:
		}
	}
}
