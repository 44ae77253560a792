package application

import (
	"context"
	"errors"
	"testing"

	"ballotbox/contexts/election-core/registry-service/adapters/memory"
	"ballotbox/contexts/election-core/registry-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/registry-service/domain/errors"
)

func newServiceFixture(t *testing.T) (*memory.Store, Service) {
	t.Helper()
	store := memory.NewStore()
	service := Service{
		Repo:   store,
		Images: store,
		Clock:  store,
		IDGen:  store,
	}
	return store, service
}

func TestCreatePositionAssignsNextDisplayOrder(t *testing.T) {
	_, service := newServiceFixture(t)
	ctx := context.Background()

	first, err := service.CreatePosition(ctx, "President", "chief officer")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := service.CreatePosition(ctx, "Secretary", "")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.DisplayOrder != 0 || second.DisplayOrder != 1 {
		t.Fatalf("expected sequential display order, got %d and %d", first.DisplayOrder, second.DisplayOrder)
	}
	if !first.Active {
		t.Fatalf("new positions should start active")
	}

	if _, err := service.CreatePosition(ctx, "  ", ""); !errors.Is(err, domainerrors.ErrInvalidPositionInput) {
		t.Fatalf("expected ErrInvalidPositionInput for blank title, got %v", err)
	}
}

func TestSetPositionActiveToggles(t *testing.T) {
	_, service := newServiceFixture(t)
	ctx := context.Background()
	position, err := service.CreatePosition(ctx, "President", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := service.SetPositionActive(ctx, position.PositionID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	positions, err := service.ListPositions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if positions[0].Active {
		t.Fatalf("expected position inactive after toggle")
	}

	if err := service.SetPositionActive(ctx, "missing", true); !errors.Is(err, domainerrors.ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}

func TestDeletePositionRemovesItsCandidates(t *testing.T) {
	_, service := newServiceFixture(t)
	ctx := context.Background()
	position, err := service.CreatePosition(ctx, "President", "")
	if err != nil {
		t.Fatalf("create position: %v", err)
	}
	if _, err := service.AddCandidate(ctx, position.PositionID, "Ada", "count on me", nil); err != nil {
		t.Fatalf("add candidate: %v", err)
	}

	if err := service.DeletePosition(ctx, position.PositionID); err != nil {
		t.Fatalf("delete position: %v", err)
	}
	candidates, err := service.ListCandidates(ctx)
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected candidates removed with position, got %d", len(candidates))
	}
}

func TestAddCandidateUploadsImage(t *testing.T) {
	store, service := newServiceFixture(t)
	ctx := context.Background()
	position, err := service.CreatePosition(ctx, "President", "")
	if err != nil {
		t.Fatalf("create position: %v", err)
	}

	candidate, err := service.AddCandidate(ctx, position.PositionID, "Ada", "manifesto", &entities.CandidateImage{
		FileName:    "portrait.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 0x50, 0x4e, 0x47},
	})
	if err != nil {
		t.Fatalf("add candidate: %v", err)
	}
	if candidate.ImageRef == "" {
		t.Fatalf("expected image reference after upload")
	}
	if store.StoredImageCount() != 1 {
		t.Fatalf("expected one stored image, got %d", store.StoredImageCount())
	}
}

func TestAddCandidateWithoutImageSkipsUpload(t *testing.T) {
	store, service := newServiceFixture(t)
	ctx := context.Background()
	position, err := service.CreatePosition(ctx, "President", "")
	if err != nil {
		t.Fatalf("create position: %v", err)
	}

	candidate, err := service.AddCandidate(ctx, position.PositionID, "Grace", "", nil)
	if err != nil {
		t.Fatalf("add candidate: %v", err)
	}
	if candidate.ImageRef != "" {
		t.Fatalf("expected empty image reference, got %q", candidate.ImageRef)
	}
	if store.StoredImageCount() != 0 {
		t.Fatalf("expected no stored images, got %d", store.StoredImageCount())
	}
}

func TestAddCandidateAbortsWhenUploadFails(t *testing.T) {
	store, service := newServiceFixture(t)
	ctx := context.Background()
	position, err := service.CreatePosition(ctx, "President", "")
	if err != nil {
		t.Fatalf("create position: %v", err)
	}
	store.FailImageUploads(errors.New("bucket unreachable"))

	_, err = service.AddCandidate(ctx, position.PositionID, "Ada", "", &entities.CandidateImage{
		FileName: "portrait.jpg",
		Data:     []byte{0xff, 0xd8},
	})
	if !errors.Is(err, domainerrors.ErrImageUploadFailed) {
		t.Fatalf("expected ErrImageUploadFailed, got %v", err)
	}
	candidates, err := service.ListCandidates(ctx)
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("failed upload must not register the candidate, got %d", len(candidates))
	}
}

func TestAddCandidateRejectsUnknownPosition(t *testing.T) {
	_, service := newServiceFixture(t)
	_, err := service.AddCandidate(context.Background(), "missing", "Ada", "", nil)
	if !errors.Is(err, domainerrors.ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}

func TestDeleteCandidate(t *testing.T) {
	_, service := newServiceFixture(t)
	ctx := context.Background()
	position, err := service.CreatePosition(ctx, "President", "")
	if err != nil {
		t.Fatalf("create position: %v", err)
	}
	candidate, err := service.AddCandidate(ctx, position.PositionID, "Ada", "", nil)
	if err != nil {
		t.Fatalf("add candidate: %v", err)
	}

	if err := service.DeleteCandidate(ctx, candidate.CandidateID); err != nil {
		t.Fatalf("delete candidate: %v", err)
	}
	if err := service.DeleteCandidate(ctx, candidate.CandidateID); !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound on repeat delete, got %v", err)
	}
}
