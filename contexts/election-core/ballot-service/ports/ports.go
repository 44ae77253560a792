package ports

import (
	"context"
	"encoding/json"
	"time"

	"ballotbox/contexts/election-core/ballot-service/domain/entities"
)

// BallotRepository is the storage port for the ballot protocol. Positions and
// candidates are read-side projections owned by the registry module; ballots
// and publication records are owned here.
type BallotRepository interface {
	ListOpenPositions(ctx context.Context) ([]entities.Position, error)
	GetPosition(ctx context.Context, positionID string) (entities.Position, error)
	ListCandidatesByPosition(ctx context.Context, positionID string) ([]entities.Candidate, error)
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)

	// CreateBallot must return domain ErrDuplicateVote when the
	// (voter, position) uniqueness constraint rejects the insert.
	CreateBallot(ctx context.Context, ballot entities.Ballot) error
	HasBallot(ctx context.Context, voterID string, positionID string) (bool, error)
	ListBallotsByPosition(ctx context.Context, positionID string) ([]entities.Ballot, error)
	CountBallotsByVoter(ctx context.Context, voterID string) (int, error)

	// CreatePublication must return domain ErrAlreadyPublished when a record
	// for the position already exists.
	CreatePublication(ctx context.Context, record entities.PublicationRecord) error
	GetPublication(ctx context.Context, positionID string) (entities.PublicationRecord, bool, error)
	ListPublications(ctx context.Context) ([]entities.PublicationRecord, error)
}

// EventEnvelope is the wire shape relayed from the outbox to the event bus.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAt    time.Time       `json:"occurred_at"`
	PartitionKey  string          `json:"partition_key"`
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

// OutboxMessage is a persisted row ready to relay.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxWriter appends events alongside state changes.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

// OutboxRepository models worker-side outbox polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher delivers relayed events to the bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber attaches topic consumers to the bus.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
