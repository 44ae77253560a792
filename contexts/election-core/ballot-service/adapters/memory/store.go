package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"ballotbox/contexts/election-core/ballot-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/ballot-service/domain/errors"
	"ballotbox/contexts/election-core/ballot-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository, outbox, clock
// and id-generator ports. It enforces the same (voter, position) uniqueness
// the backing database does, so use cases exercise identical rejection paths
// in tests and local development.
type Store struct {
	mu sync.Mutex

	positions    map[string]entities.Position
	candidates   map[string]entities.Candidate
	ballots      map[string]entities.Ballot // keyed by voterID + "|" + positionID
	publications map[string]entities.PublicationRecord
	outbox       []outboxRow

	failBallotInserts error
}

type outboxRow struct {
	ports.OutboxMessage
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		positions:    make(map[string]entities.Position),
		candidates:   make(map[string]entities.Candidate),
		ballots:      make(map[string]entities.Ballot),
		publications: make(map[string]entities.PublicationRecord),
	}
}

// SeedPosition inserts a position, generating an id when absent.
func (s *Store) SeedPosition(position entities.Position) entities.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if position.PositionID == "" {
		position.PositionID = uuid.NewString()
	}
	s.positions[position.PositionID] = position
	return position
}

// SeedCandidate inserts a candidate, generating an id when absent.
func (s *Store) SeedCandidate(candidate entities.Candidate) entities.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if candidate.CandidateID == "" {
		candidate.CandidateID = uuid.NewString()
	}
	s.candidates[candidate.CandidateID] = candidate
	return candidate
}

// FailBallotInserts forces CreateBallot to fail with the given error. Pass
// nil to restore normal behavior.
func (s *Store) FailBallotInserts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failBallotInserts = err
}

// PendingOutboxCount reports rows not yet relayed.
func (s *Store) PendingOutboxCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, row := range s.outbox {
		if row.PublishedAt == nil {
			count++
		}
	}
	return count
}

func ballotKey(voterID string, positionID string) string {
	return voterID + "|" + positionID
}

func (s *Store) ListOpenPositions(_ context.Context) ([]entities.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Position, 0, len(s.positions))
	for _, position := range s.positions {
		if position.Active {
			items = append(items, position)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DisplayOrder == items[j].DisplayOrder {
			return items[i].PositionID < items[j].PositionID
		}
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
	return items, nil
}

func (s *Store) GetPosition(_ context.Context, positionID string) (entities.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	position, ok := s.positions[positionID]
	if !ok {
		return entities.Position{}, domainerrors.ErrPositionNotFound
	}
	return position, nil
}

func (s *Store) ListCandidatesByPosition(_ context.Context, positionID string) ([]entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Candidate, 0)
	for _, candidate := range s.candidates {
		if candidate.PositionID == positionID {
			items = append(items, candidate)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CandidateID < items[j].CandidateID
	})
	return items, nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate, ok := s.candidates[candidateID]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) CreateBallot(_ context.Context, ballot entities.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failBallotInserts != nil {
		return s.failBallotInserts
	}
	key := ballotKey(ballot.VoterID, ballot.PositionID)
	if _, exists := s.ballots[key]; exists {
		return domainerrors.ErrDuplicateVote
	}
	s.ballots[key] = ballot
	return nil
}

func (s *Store) HasBallot(_ context.Context, voterID string, positionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.ballots[ballotKey(voterID, positionID)]
	return exists, nil
}

func (s *Store) ListBallotsByPosition(_ context.Context, positionID string) ([]entities.Ballot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Ballot, 0)
	for _, ballot := range s.ballots {
		if ballot.PositionID == positionID {
			items = append(items, ballot)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].BallotID < items[j].BallotID
	})
	return items, nil
}

func (s *Store) CountBallotsByVoter(_ context.Context, voterID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, ballot := range s.ballots {
		if ballot.VoterID == voterID {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreatePublication(_ context.Context, record entities.PublicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.publications[record.PositionID]; exists {
		return domainerrors.ErrAlreadyPublished
	}
	s.publications[record.PositionID] = record
	return nil
}

func (s *Store) GetPublication(_ context.Context, positionID string) (entities.PublicationRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.publications[positionID]
	return record, ok, nil
}

func (s *Store) ListPublications(_ context.Context) ([]entities.PublicationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.PublicationRecord, 0, len(s.publications))
	for _, record := range s.publications {
		items = append(items, record)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PositionID < items[j].PositionID
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, outboxRow{
		OutboxMessage: ports.OutboxMessage{
			OutboxID:  uuid.NewString(),
			EventType: event.EventType,
			Payload:   payload,
			CreatedAt: event.OccurredAt,
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.PublishedAt != nil {
			continue
		}
		items = append(items, row.OutboxMessage)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].OutboxID == outboxID {
			at := publishedAt
			s.outbox[i].PublishedAt = &at
			return nil
		}
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
