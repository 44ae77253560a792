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

// PublishResultsCommand requests visibility of a position's aggregates.
// Authorization is the caller's boundary responsibility; the use case does
// not re-check the actor's role.
type PublishResultsCommand struct {
	PositionID  string
	PublishedBy string
}

// PublishResultsResult reports the publication record plus whether the call
// was absorbed by an earlier publish.
type PublishResultsResult struct {
	Record           entities.PublicationRecord
	AlreadyPublished bool
}

// PublishResultsUseCase creates at most one publication record per position.
// Repeated publishes, including concurrent ones racing on the uniqueness
// constraint, are no-op successes.
type PublishResultsUseCase struct {
	Repo   ports.BallotRepository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc PublishResultsUseCase) PublishResults(ctx context.Context, cmd PublishResultsCommand) (PublishResultsResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	positionID := strings.TrimSpace(cmd.PositionID)
	publishedBy := strings.TrimSpace(cmd.PublishedBy)
	if positionID == "" || publishedBy == "" {
		return PublishResultsResult{}, domainerrors.ErrInvalidPublishInput
	}

	if _, err := uc.Repo.GetPosition(ctx, positionID); err != nil {
		return PublishResultsResult{}, err
	}

	if existing, found, err := uc.Repo.GetPublication(ctx, positionID); err != nil {
		return PublishResultsResult{}, err
	} else if found {
		return PublishResultsResult{Record: existing, AlreadyPublished: true}, nil
	}

	now := uc.now()
	record := entities.PublicationRecord{
		PositionID:  positionID,
		PublishedBy: publishedBy,
		PublishedAt: now,
	}
	if err := uc.Repo.CreatePublication(ctx, record); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyPublished) {
			// A concurrent publish won the insert; read back its record and
			// report success.
			existing, found, readErr := uc.Repo.GetPublication(ctx, positionID)
			if readErr == nil && found {
				return PublishResultsResult{Record: existing, AlreadyPublished: true}, nil
			}
			return PublishResultsResult{Record: record, AlreadyPublished: true}, nil
		}
		logger.Error("publication insert failed",
			"event", "results_publish_insert_failed",
			"module", "election-core/ballot-service",
			"layer", "application",
			"position_id", positionID,
			"published_by", publishedBy,
			"error", err.Error(),
		)
		return PublishResultsResult{}, err
	}

	if err := uc.appendEvent(ctx, "results.published", positionID, now, map[string]any{
		"position_id":  positionID,
		"published_by": publishedBy,
		"published_at": now.Format(time.RFC3339),
	}); err != nil {
		return PublishResultsResult{}, err
	}

	logger.Info("results published",
		"event", "results_published",
		"module", "election-core/ballot-service",
		"layer", "application",
		"position_id", positionID,
		"published_by", publishedBy,
	)
	return PublishResultsResult{Record: record}, nil
}

func (uc PublishResultsUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc PublishResultsUseCase) appendEvent(
	ctx context.Context,
	eventType string,
	positionID string,
	occurredAt time.Time,
	data map[string]any,
) error {
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
