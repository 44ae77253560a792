package queries

import (
	"context"
	"strings"

	"ballotbox/contexts/election-core/ballot-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/ballot-service/domain/errors"
	"ballotbox/contexts/election-core/ballot-service/ports"
)

// CatalogUseCase serves the read side of the voting screen: open positions,
// their candidates, and per-voter progress. All operations are
// side-effect-free.
type CatalogUseCase struct {
	Repo ports.BallotRepository
}

// ListOpenPositions returns active positions in display order.
func (uc CatalogUseCase) ListOpenPositions(ctx context.Context) ([]entities.Position, error) {
	return uc.Repo.ListOpenPositions(ctx)
}

// ListCandidates returns the candidates registered for a position. A
// position with zero candidates is listable but yields an empty set.
func (uc CatalogUseCase) ListCandidates(ctx context.Context, positionID string) ([]entities.Candidate, error) {
	positionID = strings.TrimSpace(positionID)
	if positionID == "" {
		return nil, domainerrors.ErrInvalidBallotInput
	}
	return uc.Repo.ListCandidatesByPosition(ctx, positionID)
}

// HasVoted reports whether a ballot exists for the pair. It reflects the same
// uniqueness check the write path enforces.
func (uc CatalogUseCase) HasVoted(ctx context.Context, voterID string, positionID string) (bool, error) {
	voterID = strings.TrimSpace(voterID)
	positionID = strings.TrimSpace(positionID)
	if voterID == "" || positionID == "" {
		return false, domainerrors.ErrInvalidBallotInput
	}
	return uc.Repo.HasBallot(ctx, voterID, positionID)
}

// VoterProgress reports ballots cast against the number of open positions.
func (uc CatalogUseCase) VoterProgress(ctx context.Context, voterID string) (entities.VoterProgress, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return entities.VoterProgress{}, domainerrors.ErrInvalidBallotInput
	}
	cast, err := uc.Repo.CountBallotsByVoter(ctx, voterID)
	if err != nil {
		return entities.VoterProgress{}, err
	}
	open, err := uc.Repo.ListOpenPositions(ctx)
	if err != nil {
		return entities.VoterProgress{}, err
	}
	return entities.VoterProgress{
		VoterID:       voterID,
		BallotsCast:   cast,
		OpenPositions: len(open),
	}, nil
}
