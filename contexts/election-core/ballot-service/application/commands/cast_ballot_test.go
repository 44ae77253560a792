package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ballotbox/contexts/election-core/ballot-service/adapters/memory"
	"ballotbox/contexts/election-core/ballot-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/ballot-service/domain/errors"
)

func newCastFixture(t *testing.T) (*memory.Store, CastBallotUseCase, entities.Position, entities.Candidate) {
	t.Helper()
	store := memory.NewStore()
	position := store.SeedPosition(entities.Position{Title: "President", Active: true})
	candidate := store.SeedCandidate(entities.Candidate{PositionID: position.PositionID, Name: "Ada"})
	uc := CastBallotUseCase{
		Repo:   store,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
	}
	return store, uc, position, candidate
}

func TestCastBallotRecordsVoteAndOutboxEvent(t *testing.T) {
	store, uc, position, candidate := newCastFixture(t)
	ctx := context.Background()

	ballot, err := uc.CastBallot(ctx, CastBallotCommand{
		VoterID:     "voter-1",
		PositionID:  position.PositionID,
		CandidateID: candidate.CandidateID,
	})
	if err != nil {
		t.Fatalf("cast ballot: %v", err)
	}
	if ballot.BallotID == "" {
		t.Fatalf("expected generated ballot id")
	}
	if ballot.CastAt.IsZero() {
		t.Fatalf("expected cast timestamp")
	}

	voted, err := store.HasBallot(ctx, "voter-1", position.PositionID)
	if err != nil || !voted {
		t.Fatalf("expected HasBallot true after cast, got %v %v", voted, err)
	}
	if got := store.PendingOutboxCount(); got != 1 {
		t.Fatalf("expected 1 pending outbox event, got %d", got)
	}
}

func TestCastBallotRejectsDuplicateFromPreCheck(t *testing.T) {
	_, uc, position, candidate := newCastFixture(t)
	ctx := context.Background()
	cmd := CastBallotCommand{
		VoterID:     "voter-1",
		PositionID:  position.PositionID,
		CandidateID: candidate.CandidateID,
	}

	if _, err := uc.CastBallot(ctx, cmd); err != nil {
		t.Fatalf("first cast: %v", err)
	}
	_, err := uc.CastBallot(ctx, cmd)
	if !errors.Is(err, domainerrors.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
}

func TestCastBallotRejectsCandidateFromOtherPosition(t *testing.T) {
	store, uc, position, _ := newCastFixture(t)
	other := store.SeedPosition(entities.Position{Title: "Secretary", Active: true})
	stray := store.SeedCandidate(entities.Candidate{PositionID: other.PositionID, Name: "Grace"})

	_, err := uc.CastBallot(context.Background(), CastBallotCommand{
		VoterID:     "voter-1",
		PositionID:  position.PositionID,
		CandidateID: stray.CandidateID,
	})
	if !errors.Is(err, domainerrors.ErrCandidateNotInPosition) {
		t.Fatalf("expected ErrCandidateNotInPosition, got %v", err)
	}
}

func TestCastBallotRejectsInactivePosition(t *testing.T) {
	store, uc, _, _ := newCastFixture(t)
	closed := store.SeedPosition(entities.Position{Title: "Treasurer", Active: false})
	candidate := store.SeedCandidate(entities.Candidate{PositionID: closed.PositionID, Name: "Alan"})

	_, err := uc.CastBallot(context.Background(), CastBallotCommand{
		VoterID:     "voter-1",
		PositionID:  closed.PositionID,
		CandidateID: candidate.CandidateID,
	})
	if !errors.Is(err, domainerrors.ErrPositionInactive) {
		t.Fatalf("expected ErrPositionInactive, got %v", err)
	}
}

func TestCastBallotRejectsUnknownPositionAndCandidate(t *testing.T) {
	_, uc, position, _ := newCastFixture(t)
	ctx := context.Background()

	if _, err := uc.CastBallot(ctx, CastBallotCommand{
		VoterID:     "voter-1",
		PositionID:  "missing",
		CandidateID: "whatever",
	}); !errors.Is(err, domainerrors.ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}

	if _, err := uc.CastBallot(ctx, CastBallotCommand{
		VoterID:     "voter-1",
		PositionID:  position.PositionID,
		CandidateID: "missing",
	}); !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestCastBallotClassifiesStorageFailure(t *testing.T) {
	store, uc, position, candidate := newCastFixture(t)
	store.FailBallotInserts(errors.New("connection reset"))

	_, err := uc.CastBallot(context.Background(), CastBallotCommand{
		VoterID:     "voter-1",
		PositionID:  position.PositionID,
		CandidateID: candidate.CandidateID,
	})
	if !errors.Is(err, domainerrors.ErrCastFailed) {
		t.Fatalf("expected ErrCastFailed, got %v", err)
	}
}

func TestCastBallotValidatesInput(t *testing.T) {
	_, uc, position, candidate := newCastFixture(t)
	cases := []CastBallotCommand{
		{VoterID: "", PositionID: position.PositionID, CandidateID: candidate.CandidateID},
		{VoterID: "voter-1", PositionID: " ", CandidateID: candidate.CandidateID},
		{VoterID: "voter-1", PositionID: position.PositionID, CandidateID: ""},
	}
	for _, cmd := range cases {
		if _, err := uc.CastBallot(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidBallotInput) {
			t.Fatalf("expected ErrInvalidBallotInput for %+v, got %v", cmd, err)
		}
	}
}

func TestConcurrentCastsYieldExactlyOneBallot(t *testing.T) {
	store, uc, position, candidate := newCastFixture(t)
	ctx := context.Background()
	cmd := CastBallotCommand{
		VoterID:     "voter-1",
		PositionID:  position.PositionID,
		CandidateID: candidate.CandidateID,
	}

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = uc.CastBallot(ctx, cmd)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domainerrors.ErrDuplicateVote):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful cast, got %d", successes)
	}

	ballots, err := store.ListBallotsByPosition(ctx, position.PositionID)
	if err != nil {
		t.Fatalf("list ballots: %v", err)
	}
	if len(ballots) != 1 {
		t.Fatalf("expected 1 stored ballot, got %d", len(ballots))
	}
}
