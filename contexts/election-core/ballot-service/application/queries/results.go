package queries

import (
	"context"
	"sort"
	"strings"

	"ballotbox/contexts/election-core/ballot-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/ballot-service/domain/errors"
	"ballotbox/contexts/election-core/ballot-service/ports"
)

// ResultsUseCase serves aggregation and publication visibility.
type ResultsUseCase struct {
	Repo ports.BallotRepository
}

// IsPublished reports whether a publication record exists for the position.
func (uc ResultsUseCase) IsPublished(ctx context.Context, positionID string) (bool, error) {
	positionID = strings.TrimSpace(positionID)
	if positionID == "" {
		return false, domainerrors.ErrInvalidPublishInput
	}
	_, found, err := uc.Repo.GetPublication(ctx, positionID)
	return found, err
}

// ListPublishedPositions returns the ids of every published position.
func (uc ResultsUseCase) ListPublishedPositions(ctx context.Context) ([]string, error) {
	records, err := uc.Repo.ListPublications(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.PositionID)
	}
	sort.Strings(ids)
	return ids, nil
}

// AggregateVotes counts ballots per candidate for a position. Every supplied
// candidate appears, zero-ballot candidates included; rows are sorted
// descending by count with ties kept in the candidates' listing order so the
// output is deterministic across calls. Ballots referencing a candidate not
// in the supplied list (orphaned by an out-of-band delete) are ignored, not
// an error.
func (uc ResultsUseCase) AggregateVotes(
	ctx context.Context,
	positionID string,
	candidates []entities.Candidate,
) (entities.PositionResult, error) {
	positionID = strings.TrimSpace(positionID)
	if positionID == "" {
		return entities.PositionResult{}, domainerrors.ErrInvalidBallotInput
	}

	ballots, err := uc.Repo.ListBallotsByPosition(ctx, positionID)
	if err != nil {
		return entities.PositionResult{}, err
	}

	tracked := make(map[string]int, len(candidates))
	for _, candidate := range candidates {
		tracked[candidate.CandidateID] = 0
	}
	total := 0
	for _, ballot := range ballots {
		if _, ok := tracked[ballot.CandidateID]; !ok {
			continue
		}
		tracked[ballot.CandidateID]++
		total++
	}

	counts := make([]entities.VoteCount, 0, len(candidates))
	for _, candidate := range candidates {
		counts = append(counts, entities.VoteCount{
			CandidateID: candidate.CandidateID,
			Name:        candidate.Name,
			Count:       tracked[candidate.CandidateID],
		})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	result := entities.PositionResult{
		PositionID: positionID,
		TotalVotes: total,
		Counts:     counts,
	}
	if total > 0 && len(counts) > 0 {
		result.WinnerCandidateID = counts[0].CandidateID
	}
	return result, nil
}
