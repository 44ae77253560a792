package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ballotbox/contexts/election-core/registry-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/registry-service/domain/errors"

	"github.com/google/uuid"
)

// Store is an in-memory catalog backend implementing the repository, image
// store, clock and id-generator ports for tests and local development.
type Store struct {
	mu sync.Mutex

	positions  map[string]entities.Position
	candidates map[string]entities.Candidate
	images     map[string][]byte

	failImageUploads error
}

func NewStore() *Store {
	return &Store{
		positions:  make(map[string]entities.Position),
		candidates: make(map[string]entities.Candidate),
		images:     make(map[string][]byte),
	}
}

// FailImageUploads forces UploadImage to fail with the given error. Pass nil
// to restore normal behavior.
func (s *Store) FailImageUploads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failImageUploads = err
}

// StoredImageCount reports how many blobs have been uploaded.
func (s *Store) StoredImageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

func (s *Store) CreatePosition(_ context.Context, position entities.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[position.PositionID] = position
	return nil
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

func (s *Store) ListPositions(_ context.Context) ([]entities.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Position, 0, len(s.positions))
	for _, position := range s.positions {
		items = append(items, position)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DisplayOrder == items[j].DisplayOrder {
			return items[i].PositionID < items[j].PositionID
		}
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
	return items, nil
}

func (s *Store) CountPositions(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.positions), nil
}

func (s *Store) UpdatePositionActive(_ context.Context, positionID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	position, ok := s.positions[positionID]
	if !ok {
		return domainerrors.ErrPositionNotFound
	}
	position.Active = active
	s.positions[positionID] = position
	return nil
}

func (s *Store) DeletePosition(_ context.Context, positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[positionID]; !ok {
		return domainerrors.ErrPositionNotFound
	}
	delete(s.positions, positionID)
	// Cascade the way the database foreign keys would.
	for id, candidate := range s.candidates {
		if candidate.PositionID == positionID {
			delete(s.candidates, id)
		}
	}
	return nil
}

func (s *Store) CreateCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[candidate.CandidateID] = candidate
	return nil
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

func (s *Store) ListCandidates(_ context.Context) ([]entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Candidate, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		items = append(items, candidate)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CandidateID < items[j].CandidateID
	})
	return items, nil
}

func (s *Store) DeleteCandidate(_ context.Context, candidateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[candidateID]; !ok {
		return domainerrors.ErrCandidateNotFound
	}
	delete(s.candidates, candidateID)
	return nil
}

func (s *Store) UploadImage(_ context.Context, objectName string, _ string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failImageUploads != nil {
		return "", s.failImageUploads
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.images[objectName] = stored
	return "memory://" + objectName, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
