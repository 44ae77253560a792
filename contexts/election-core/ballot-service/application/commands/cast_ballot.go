package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "ballotbox/contexts/election-core/ballot-service/application"
	"ballotbox/contexts/election-core/ballot-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/ballot-service/domain/errors"
	"ballotbox/contexts/election-core/ballot-service/ports"
)

// CastBallotCommand is the write-model input for ballot creation.
type CastBallotCommand struct {
	VoterID     string
	PositionID  string
	CandidateID string
}

// CastBallotUseCase creates exactly one ballot per voter and position.
//
// The local HasBallot pre-check is an optimization only; the storage
// uniqueness constraint is the single source of truth, so a rejected insert
// from a pre-check miss (stale cache, double click, second tab) is handled as
// the normal ErrDuplicateVote outcome and never retried.
type CastBallotUseCase struct {
	Repo   ports.BallotRepository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc CastBallotUseCase) CastBallot(ctx context.Context, cmd CastBallotCommand) (entities.Ballot, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	positionID := strings.TrimSpace(cmd.PositionID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	if voterID == "" || positionID == "" || candidateID == "" {
		return entities.Ballot{}, domainerrors.ErrInvalidBallotInput
	}

	position, err := uc.Repo.GetPosition(ctx, positionID)
	if err != nil {
		return entities.Ballot{}, err
	}
	if !position.Active {
		return entities.Ballot{}, domainerrors.ErrPositionInactive
	}

	candidate, err := uc.Repo.GetCandidate(ctx, candidateID)
	if err != nil {
		return entities.Ballot{}, err
	}
	if candidate.PositionID != positionID {
		return entities.Ballot{}, domainerrors.ErrCandidateNotInPosition
	}

	if voted, err := uc.Repo.HasBallot(ctx, voterID, positionID); err == nil && voted {
		// Expected outcome, reported without error-level logging.
		logger.Info("duplicate ballot blocked by local check",
			"event", "ballot_cast_duplicate_precheck",
			"module", "election-core/ballot-service",
			"layer", "application",
			"voter_id", voterID,
			"position_id", positionID,
		)
		return entities.Ballot{}, domainerrors.ErrDuplicateVote
	}

	now := uc.now()
	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Ballot{}, domainerrors.ErrCastFailed
	}
	ballot := entities.Ballot{
		BallotID:    ballotID,
		VoterID:     voterID,
		PositionID:  positionID,
		CandidateID: candidateID,
		CastAt:      now,
	}
	if err := uc.Repo.CreateBallot(ctx, ballot); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateVote) {
			// The constraint caught what the pre-check missed. Do not retry.
			logger.Info("duplicate ballot rejected by uniqueness constraint",
				"event", "ballot_cast_duplicate_constraint",
				"module", "election-core/ballot-service",
				"layer", "application",
				"voter_id", voterID,
				"position_id", positionID,
			)
			return entities.Ballot{}, domainerrors.ErrDuplicateVote
		}
		logger.Error("ballot insert failed",
			"event", "ballot_cast_insert_failed",
			"module", "election-core/ballot-service",
			"layer", "application",
			"voter_id", voterID,
			"position_id", positionID,
			"error", err.Error(),
		)
		return entities.Ballot{}, domainerrors.ErrCastFailed
	}

	if err := uc.appendEvent(ctx, "ballot.cast", positionID, now, map[string]any{
		"ballot_id":    ballot.BallotID,
		"voter_id":     voterID,
		"position_id":  positionID,
		"candidate_id": candidateID,
		"cast_at":      now.Format(time.RFC3339),
	}); err != nil {
		return entities.Ballot{}, err
	}

	logger.Info("ballot cast",
		"event", "ballot_cast",
		"module", "election-core/ballot-service",
		"layer", "application",
		"ballot_id", ballot.BallotID,
		"voter_id", voterID,
		"position_id", positionID,
		"candidate_id", candidateID,
	)
	return ballot, nil
}

func (uc CastBallotUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc CastBallotUseCase) appendEvent(
	ctx context.Context,
	eventType string,
	positionID string,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newElectionEnvelope(eventID, eventType, positionID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
