package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"ballotbox/contexts/election-core/ballot-service/adapters/memory"
	"ballotbox/contexts/election-core/ballot-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/ballot-service/domain/errors"
)

func TestListOpenPositionsFiltersInactiveAndSortsByDisplayOrder(t *testing.T) {
	store := memory.NewStore()
	second := store.SeedPosition(entities.Position{Title: "Secretary", DisplayOrder: 2, Active: true})
	first := store.SeedPosition(entities.Position{Title: "President", DisplayOrder: 1, Active: true})
	store.SeedPosition(entities.Position{Title: "Closed", DisplayOrder: 0, Active: false})

	uc := CatalogUseCase{Repo: store}
	positions, err := uc.ListOpenPositions(context.Background())
	if err != nil {
		t.Fatalf("list positions: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 open positions, got %d", len(positions))
	}
	if positions[0].PositionID != first.PositionID || positions[1].PositionID != second.PositionID {
		t.Fatalf("expected display order sorting, got %v", positions)
	}
}

func TestListCandidatesForEmptyPositionYieldsEmptySet(t *testing.T) {
	store := memory.NewStore()
	position := store.SeedPosition(entities.Position{Title: "Auditor", Active: true})

	uc := CatalogUseCase{Repo: store}
	candidates, err := uc.ListCandidates(context.Background(), position.PositionID)
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected empty candidate set, got %d", len(candidates))
	}

	if _, err := uc.ListCandidates(context.Background(), " "); !errors.Is(err, domainerrors.ErrInvalidBallotInput) {
		t.Fatalf("expected ErrInvalidBallotInput for blank id, got %v", err)
	}
}

func TestVoterProgressCountsBallotsAgainstOpenPositions(t *testing.T) {
	store := memory.NewStore()
	president := store.SeedPosition(entities.Position{Title: "President", Active: true})
	store.SeedPosition(entities.Position{Title: "Secretary", Active: true})
	candidate := store.SeedCandidate(entities.Candidate{PositionID: president.PositionID, Name: "Ada"})

	ctx := context.Background()
	err := store.CreateBallot(ctx, entities.Ballot{
		BallotID:    "b-1",
		VoterID:     "voter-1",
		PositionID:  president.PositionID,
		CandidateID: candidate.CandidateID,
		CastAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed ballot: %v", err)
	}

	uc := CatalogUseCase{Repo: store}
	progress, err := uc.VoterProgress(ctx, "voter-1")
	if err != nil {
		t.Fatalf("voter progress: %v", err)
	}
	if progress.BallotsCast != 1 || progress.OpenPositions != 2 {
		t.Fatalf("expected 1/2 progress, got %+v", progress)
	}

	voted, err := uc.HasVoted(ctx, "voter-1", president.PositionID)
	if err != nil || !voted {
		t.Fatalf("expected HasVoted true, got %v %v", voted, err)
	}
}
