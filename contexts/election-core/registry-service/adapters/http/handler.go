package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"ballotbox/contexts/election-core/registry-service/application"
	"ballotbox/contexts/election-core/registry-service/domain/entities"
	httptransport "ballotbox/contexts/election-core/registry-service/transport/http"
)

// Handler maps transport DTOs onto the registry service. All operations are
// admin-gated at the server boundary.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreatePositionHandler(ctx context.Context, req httptransport.CreatePositionRequest) (httptransport.PositionResponse, error) {
	position, err := h.Service.CreatePosition(ctx, req.Title, req.Description)
	if err != nil {
		return httptransport.PositionResponse{}, err
	}
	return httptransport.PositionResponse{Position: position}, nil
}

func (h Handler) SetPositionActiveHandler(ctx context.Context, positionID string, req httptransport.SetPositionActiveRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.SetPositionActive(ctx, strings.TrimSpace(positionID), req.Active); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) DeletePositionHandler(ctx context.Context, positionID string) (httptransport.StatusResponse, error) {
	if err := h.Service.DeletePosition(ctx, strings.TrimSpace(positionID)); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) ListPositionsHandler(ctx context.Context) (httptransport.PositionListResponse, error) {
	positions, err := h.Service.ListPositions(ctx)
	if err != nil {
		return httptransport.PositionListResponse{}, err
	}
	return httptransport.PositionListResponse{Positions: positions}, nil
}

func (h Handler) AddCandidateHandler(ctx context.Context, req httptransport.AddCandidateRequest) (httptransport.CandidateResponse, error) {
	var image *entities.CandidateImage
	if req.Image != nil {
		image = &entities.CandidateImage{
			FileName:    req.Image.FileName,
			ContentType: req.Image.ContentType,
			Data:        req.Image.Data,
		}
	}
	candidate, err := h.Service.AddCandidate(ctx, req.PositionID, req.Name, req.Manifesto, image)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return httptransport.CandidateResponse{Candidate: candidate}, nil
}

func (h Handler) DeleteCandidateHandler(ctx context.Context, candidateID string) (httptransport.StatusResponse, error) {
	if err := h.Service.DeleteCandidate(ctx, strings.TrimSpace(candidateID)); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context) (httptransport.CandidateListResponse, error) {
	candidates, err := h.Service.ListCandidates(ctx)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	return httptransport.CandidateListResponse{Candidates: candidates}, nil
}
