package application

import (
	"context"
	"testing"
	"time"

	"ballotbox/contexts/identity-access/session-resolver/adapters/memory"
	"ballotbox/contexts/identity-access/session-resolver/domain/entities"
)

func newTestResolver(t *testing.T) (*Resolver, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	resolver := NewResolver(Dependencies{
		Gateway:  store,
		Roles:    store,
		Profiles: store,
	})
	return resolver, store
}

func waitForLookups(t *testing.T, store *memory.Store, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for store.RoleLookupCount() < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d role lookups, saw %d", want, store.RoleLookupCount())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestResolveRolePolicy(t *testing.T) {
	resolver, store := newTestResolver(t)

	cases := []struct {
		labels []string
		want   entities.Role
	}{
		{nil, entities.RoleVoter},
		{[]string{"voter"}, entities.RoleVoter},
		{[]string{"admin"}, entities.RoleAdmin},
		{[]string{"voter", "admin"}, entities.RoleAdmin},
		{[]string{"editor"}, entities.RoleVoter},
	}
	for _, tc := range cases {
		store.SetRoleAssignments("identity-1", tc.labels...)
		got := resolver.ResolveRole(context.Background(), "identity-1")
		if got != tc.want {
			t.Fatalf("labels %v resolved to %s, want %s", tc.labels, got, tc.want)
		}
	}
}

func TestResolveRoleFailsOpenToVoter(t *testing.T) {
	resolver, store := newTestResolver(t)
	store.SetRoleAssignments("identity-1", "admin")
	store.FailRoleLookups(true)

	if got := resolver.ResolveRole(context.Background(), "identity-1"); got != entities.RoleVoter {
		t.Fatalf("expected voter on lookup failure, got %s", got)
	}
}

func TestInitializeWithoutSession(t *testing.T) {
	resolver, _ := newTestResolver(t)

	snapshot, err := resolver.Initialize(context.Background())
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if !snapshot.Ready {
		t.Fatal("expected ready snapshot")
	}
	if snapshot.Identity != nil {
		t.Fatalf("expected no identity, got %+v", snapshot.Identity)
	}
}

func TestInitializeResolvesCurrentSession(t *testing.T) {
	resolver, store := newTestResolver(t)
	id := store.SeedAccount("chair@example.com", "pw")
	store.SetRoleAssignments(id, "admin")
	store.SetCurrentSession(store.NewSessionFor("chair@example.com"))

	snapshot, err := resolver.Initialize(context.Background())
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if !snapshot.Ready || snapshot.Identity == nil || snapshot.Identity.ID != id {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	if snapshot.Role != entities.RoleAdmin {
		t.Fatalf("expected admin role, got %s", snapshot.Role)
	}
}

func TestInitializeRoleFailureStillBecomesReady(t *testing.T) {
	resolver, store := newTestResolver(t)
	store.SeedAccount("v@example.com", "pw")
	store.SetCurrentSession(store.NewSessionFor("v@example.com"))
	store.FailRoleLookups(true)

	snapshot, err := resolver.Initialize(context.Background())
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if !snapshot.Ready {
		t.Fatal("expected ready snapshot despite lookup failure")
	}
	if snapshot.Role != entities.RoleVoter {
		t.Fatalf("expected fail-open voter role, got %s", snapshot.Role)
	}
}

func TestSignedInDuringInitializeIsDeduplicated(t *testing.T) {
	resolver, store := newTestResolver(t)
	id := store.SeedAccount("v@example.com", "pw")
	store.SetRoleAssignments(id, "voter")
	session := store.NewSessionFor("v@example.com")
	store.SetCurrentSession(session)

	gate := make(chan struct{})
	store.SetRoleLookupGate(gate)

	done := make(chan entities.Snapshot, 1)
	go func() {
		snapshot, _ := resolver.Initialize(context.Background())
		done <- snapshot
	}()
	waitForLookups(t, store, 1)

	// The backend replays SIGNED_IN for the identity the one-shot fetch is
	// already resolving; this must not trigger a second lookup.
	resolver.HandleEvent(context.Background(), entities.SessionEvent{
		Kind:    entities.EventSignedIn,
		Session: session,
	})

	close(gate)
	snapshot := <-done

	if store.RoleLookupCount() != 1 {
		t.Fatalf("expected exactly one role lookup, got %d", store.RoleLookupCount())
	}
	if !snapshot.Ready || snapshot.Role != entities.RoleVoter {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestSignedInForOtherIdentityDuringInitializeWins(t *testing.T) {
	resolver, store := newTestResolver(t)
	idA := store.SeedAccount("a@example.com", "pw")
	idB := store.SeedAccount("b@example.com", "pw")
	store.SetRoleAssignments(idA, "voter")
	store.SetRoleAssignments(idB, "admin")
	store.SetCurrentSession(store.NewSessionFor("a@example.com"))

	gate := make(chan struct{})
	store.SetRoleLookupGate(gate)

	initDone := make(chan struct{})
	go func() {
		_, _ = resolver.Initialize(context.Background())
		close(initDone)
	}()
	waitForLookups(t, store, 1)

	eventDone := make(chan struct{})
	go func() {
		resolver.HandleEvent(context.Background(), entities.SessionEvent{
			Kind:    entities.EventSignedIn,
			Session: store.NewSessionFor("b@example.com"),
		})
		close(eventDone)
	}()
	waitForLookups(t, store, 2)

	close(gate)
	<-initDone
	<-eventDone

	snapshot := resolver.Snapshot()
	if snapshot.Identity == nil || snapshot.Identity.ID != idB {
		t.Fatalf("expected identity %s to win, got %+v", idB, snapshot.Identity)
	}
	if snapshot.Role != entities.RoleAdmin || !snapshot.Ready {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestDuplicateSignedInAfterReadyIsNoOp(t *testing.T) {
	resolver, store := newTestResolver(t)
	id := store.SeedAccount("v@example.com", "pw")
	store.SetRoleAssignments(id, "voter")
	session := store.NewSessionFor("v@example.com")
	store.SetCurrentSession(session)

	if _, err := resolver.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	before := store.RoleLookupCount()

	resolver.HandleEvent(context.Background(), entities.SessionEvent{
		Kind:    entities.EventSignedIn,
		Session: session,
	})

	if store.RoleLookupCount() != before {
		t.Fatalf("duplicate sign-in triggered a role refetch")
	}
	if snapshot := resolver.Snapshot(); !snapshot.Ready {
		t.Fatal("duplicate sign-in toggled readiness")
	}
}

func TestTokenRefreshKeepsRoleAndReadiness(t *testing.T) {
	resolver, store := newTestResolver(t)
	id := store.SeedAccount("v@example.com", "pw")
	store.SetRoleAssignments(id, "voter")
	store.SetCurrentSession(store.NewSessionFor("v@example.com"))

	if _, err := resolver.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	before := store.RoleLookupCount()

	refreshed := store.NewSessionFor("v@example.com")
	resolver.HandleEvent(context.Background(), entities.SessionEvent{
		Kind:    entities.EventTokenRefreshed,
		Session: refreshed,
	})

	snapshot := resolver.Snapshot()
	if snapshot.Role != entities.RoleVoter || !snapshot.Ready {
		t.Fatalf("token refresh disturbed snapshot: %+v", snapshot)
	}
	if store.RoleLookupCount() != before {
		t.Fatal("token refresh triggered a role lookup")
	}
	if session := resolver.Session(); session == nil || session.AccessToken != refreshed.AccessToken {
		t.Fatal("token refresh did not update the credential")
	}
}

func TestSignedOutClearsImmediately(t *testing.T) {
	resolver, store := newTestResolver(t)
	id := store.SeedAccount("v@example.com", "pw")
	store.SetRoleAssignments(id, "voter")
	store.SetCurrentSession(store.NewSessionFor("v@example.com"))

	if _, err := resolver.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	resolver.HandleEvent(context.Background(), entities.SessionEvent{Kind: entities.EventSignedOut})

	snapshot := resolver.Snapshot()
	if snapshot.Identity != nil || snapshot.Role != entities.RoleUnknown || !snapshot.Ready {
		t.Fatalf("unexpected snapshot after sign-out: %+v", snapshot)
	}
}

func TestGenuineNewSignInReResolves(t *testing.T) {
	resolver, store := newTestResolver(t)
	idA := store.SeedAccount("a@example.com", "pw")
	idB := store.SeedAccount("b@example.com", "pw")
	store.SetRoleAssignments(idA, "voter")
	store.SetRoleAssignments(idB, "admin")
	store.SetCurrentSession(store.NewSessionFor("a@example.com"))

	if _, err := resolver.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	resolver.HandleEvent(context.Background(), entities.SessionEvent{Kind: entities.EventSignedOut})
	resolver.HandleEvent(context.Background(), entities.SessionEvent{
		Kind:    entities.EventSignedIn,
		Session: store.NewSessionFor("b@example.com"),
	})

	snapshot := resolver.Snapshot()
	if snapshot.Identity == nil || snapshot.Identity.ID != idB {
		t.Fatalf("expected identity %s, got %+v", idB, snapshot.Identity)
	}
	if snapshot.Role != entities.RoleAdmin || !snapshot.Ready {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	if store.RoleLookupCount() != 2 {
		t.Fatalf("expected two role lookups, got %d", store.RoleLookupCount())
	}
}

func TestSignOutClearsLocallyWithoutWaitingForEvent(t *testing.T) {
	resolver, store := newTestResolver(t)
	id := store.SeedAccount("v@example.com", "pw")
	store.SetRoleAssignments(id, "voter")
	store.SetCurrentSession(store.NewSessionFor("v@example.com"))

	if _, err := resolver.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := resolver.SignOut(context.Background()); err != nil {
		t.Fatalf("sign-out failed: %v", err)
	}

	// The emitted SIGNED_OUT event has not been handled; the local snapshot
	// must already be cleared.
	snapshot := resolver.Snapshot()
	if snapshot.Identity != nil || snapshot.Role != entities.RoleUnknown || !snapshot.Ready {
		t.Fatalf("unexpected snapshot after local sign-out: %+v", snapshot)
	}
}

func TestCloseDiscardsLateResolution(t *testing.T) {
	resolver, store := newTestResolver(t)
	store.SeedAccount("v@example.com", "pw")
	store.SetCurrentSession(store.NewSessionFor("v@example.com"))

	gate := make(chan struct{})
	store.SetRoleLookupGate(gate)

	done := make(chan struct{})
	go func() {
		_, _ = resolver.Initialize(context.Background())
		close(done)
	}()
	waitForLookups(t, store, 1)

	resolver.Close()
	close(gate)
	<-done

	snapshot := resolver.Snapshot()
	if snapshot.Ready {
		t.Fatal("late resolution applied itself to a closed resolver")
	}
	if snapshot.Identity != nil {
		t.Fatalf("late resolution leaked identity: %+v", snapshot.Identity)
	}
}

func TestSignUpRecordsProfile(t *testing.T) {
	resolver, store := newTestResolver(t)

	err := resolver.SignUp(context.Background(), "new@example.com", "pw", entities.Profile{
		Name:               "New Voter",
		Department:         "Engineering",
		RegistrationNumber: "ENG-042",
		PhoneNumber:        "555-0100",
	})
	if err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}

	session, err := store.CurrentSession(context.Background())
	if err != nil || session == nil {
		t.Fatalf("expected active session after sign-up, err=%v", err)
	}
	profile, err := store.GetProfile(context.Background(), session.Identity.ID)
	if err != nil {
		t.Fatalf("profile lookup failed: %v", err)
	}
	if profile.Name != "New Voter" || profile.Email != "new@example.com" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}
