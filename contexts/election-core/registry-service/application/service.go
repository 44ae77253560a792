package application

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"ballotbox/contexts/election-core/registry-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/registry-service/domain/errors"
	"ballotbox/contexts/election-core/registry-service/ports"
)

// Service implements the admin catalog operations. Delete cascades are a
// storage concern and are not re-validated here.
type Service struct {
	Repo   ports.Repository
	Images ports.ImageStore
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CreatePosition appends a position at the end of the display order.
func (s Service) CreatePosition(ctx context.Context, title string, description string) (entities.Position, error) {
	logger := ResolveLogger(s.Logger)
	title = strings.TrimSpace(title)
	if title == "" {
		return entities.Position{}, domainerrors.ErrInvalidPositionInput
	}

	count, err := s.Repo.CountPositions(ctx)
	if err != nil {
		return entities.Position{}, err
	}
	positionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Position{}, err
	}
	position := entities.Position{
		PositionID:   positionID,
		Title:        title,
		Description:  strings.TrimSpace(description),
		DisplayOrder: count,
		Active:       true,
		CreatedAt:    s.now(),
	}
	if err := s.Repo.CreatePosition(ctx, position); err != nil {
		logger.Error("position insert failed",
			"event", "registry_position_insert_failed",
			"module", "election-core/registry-service",
			"layer", "application",
			"title", title,
			"error", err.Error(),
		)
		return entities.Position{}, err
	}
	logger.Info("position created",
		"event", "registry_position_created",
		"module", "election-core/registry-service",
		"layer", "application",
		"position_id", position.PositionID,
		"display_order", position.DisplayOrder,
	)
	return position, nil
}

// SetPositionActive toggles whether voters can cast ballots for the position.
func (s Service) SetPositionActive(ctx context.Context, positionID string, active bool) error {
	positionID = strings.TrimSpace(positionID)
	if positionID == "" {
		return domainerrors.ErrInvalidPositionInput
	}
	if _, err := s.Repo.GetPosition(ctx, positionID); err != nil {
		return err
	}
	return s.Repo.UpdatePositionActive(ctx, positionID, active)
}

// DeletePosition removes a position. Dependent candidate and ballot rows are
// the storage layer's cascade to handle.
func (s Service) DeletePosition(ctx context.Context, positionID string) error {
	logger := ResolveLogger(s.Logger)
	positionID = strings.TrimSpace(positionID)
	if positionID == "" {
		return domainerrors.ErrInvalidPositionInput
	}
	if _, err := s.Repo.GetPosition(ctx, positionID); err != nil {
		return err
	}
	if err := s.Repo.DeletePosition(ctx, positionID); err != nil {
		return err
	}
	logger.Info("position deleted",
		"event", "registry_position_deleted",
		"module", "election-core/registry-service",
		"layer", "application",
		"position_id", positionID,
	)
	return nil
}

// AddCandidate registers a candidate under a position. When an image is
// supplied it is uploaded first; a failed upload aborts registration.
func (s Service) AddCandidate(
	ctx context.Context,
	positionID string,
	name string,
	manifesto string,
	image *entities.CandidateImage,
) (entities.Candidate, error) {
	logger := ResolveLogger(s.Logger)
	positionID = strings.TrimSpace(positionID)
	name = strings.TrimSpace(name)
	if positionID == "" || name == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidCandidateInput
	}
	if _, err := s.Repo.GetPosition(ctx, positionID); err != nil {
		return entities.Candidate{}, err
	}

	candidateID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}

	imageRef := ""
	if image != nil && len(image.Data) > 0 {
		objectName := candidateObjectName(candidateID, image.FileName)
		ref, err := s.Images.UploadImage(ctx, objectName, image.ContentType, image.Data)
		if err != nil {
			logger.Error("candidate image upload failed",
				"event", "registry_image_upload_failed",
				"module", "election-core/registry-service",
				"layer", "application",
				"position_id", positionID,
				"object_name", objectName,
				"error", err.Error(),
			)
			return entities.Candidate{}, domainerrors.ErrImageUploadFailed
		}
		imageRef = ref
	}

	candidate := entities.Candidate{
		CandidateID: candidateID,
		PositionID:  positionID,
		Name:        name,
		Manifesto:   strings.TrimSpace(manifesto),
		ImageRef:    imageRef,
		CreatedAt:   s.now(),
	}
	if err := s.Repo.CreateCandidate(ctx, candidate); err != nil {
		logger.Error("candidate insert failed",
			"event", "registry_candidate_insert_failed",
			"module", "election-core/registry-service",
			"layer", "application",
			"position_id", positionID,
			"error", err.Error(),
		)
		return entities.Candidate{}, err
	}
	logger.Info("candidate registered",
		"event", "registry_candidate_registered",
		"module", "election-core/registry-service",
		"layer", "application",
		"candidate_id", candidate.CandidateID,
		"position_id", positionID,
	)
	return candidate, nil
}

// DeleteCandidate removes a candidate registration.
func (s Service) DeleteCandidate(ctx context.Context, candidateID string) error {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return domainerrors.ErrInvalidCandidateInput
	}
	if _, err := s.Repo.GetCandidate(ctx, candidateID); err != nil {
		return err
	}
	return s.Repo.DeleteCandidate(ctx, candidateID)
}

// ListPositions returns every position in display order, inactive included.
func (s Service) ListPositions(ctx context.Context) ([]entities.Position, error) {
	return s.Repo.ListPositions(ctx)
}

// ListCandidates returns every registered candidate.
func (s Service) ListCandidates(ctx context.Context) ([]entities.Candidate, error) {
	return s.Repo.ListCandidates(ctx)
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// candidateObjectName keys uploads by candidate id so re-uploads never collide
// across candidates; the original extension is preserved for content sniffing.
func candidateObjectName(candidateID string, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return "candidates/" + candidateID + ext
}
