package ports

import (
	"context"
	"time"

	"ballotbox/contexts/election-core/registry-service/domain/entities"
)

// Repository is the write-side storage port for the election catalog.
type Repository interface {
	CreatePosition(ctx context.Context, position entities.Position) error
	GetPosition(ctx context.Context, positionID string) (entities.Position, error)
	ListPositions(ctx context.Context) ([]entities.Position, error)
	CountPositions(ctx context.Context) (int, error)
	UpdatePositionActive(ctx context.Context, positionID string, active bool) error
	DeletePosition(ctx context.Context, positionID string) error

	CreateCandidate(ctx context.Context, candidate entities.Candidate) error
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListCandidates(ctx context.Context) ([]entities.Candidate, error)
	DeleteCandidate(ctx context.Context, candidateID string) error
}

// ImageStore persists candidate image blobs and returns a public reference.
type ImageStore interface {
	UploadImage(ctx context.Context, objectName string, contentType string, data []byte) (string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
