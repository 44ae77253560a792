package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ballotbox/contexts/election-core/ballot-service/application/commands"
	"ballotbox/contexts/election-core/ballot-service/application/queries"
	domainerrors "ballotbox/contexts/election-core/ballot-service/domain/errors"
	httptransport "ballotbox/contexts/election-core/ballot-service/transport/http"
)

// Handler maps transport DTOs onto the ballot use cases. Results for a
// position are only served once published; admin gating for publish happens at
// the server boundary.
type Handler struct {
	Cast    commands.CastBallotUseCase
	Publish commands.PublishResultsUseCase
	Catalog queries.CatalogUseCase
	Results queries.ResultsUseCase
	Logger  *slog.Logger
}

func (h Handler) ListPositionsHandler(ctx context.Context) (httptransport.PositionListResponse, error) {
	positions, err := h.Catalog.ListOpenPositions(ctx)
	if err != nil {
		return httptransport.PositionListResponse{}, err
	}
	return httptransport.PositionListResponse{Positions: positions}, nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context, positionID string) (httptransport.CandidateListResponse, error) {
	positionID = strings.TrimSpace(positionID)
	candidates, err := h.Catalog.ListCandidates(ctx, positionID)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	return httptransport.CandidateListResponse{PositionID: positionID, Candidates: candidates}, nil
}

func (h Handler) CastBallotHandler(ctx context.Context, voterID string, req httptransport.CastBallotRequest) (httptransport.CastBallotResponse, error) {
	ballot, err := h.Cast.CastBallot(ctx, commands.CastBallotCommand{
		VoterID:     voterID,
		PositionID:  req.PositionID,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return httptransport.CastBallotResponse{}, err
	}
	return httptransport.CastBallotResponse{
		BallotID:   ballot.BallotID,
		PositionID: ballot.PositionID,
		CastAt:     ballot.CastAt.Format(time.RFC3339),
	}, nil
}

func (h Handler) HasVotedHandler(ctx context.Context, voterID string, positionID string) (httptransport.HasVotedResponse, error) {
	positionID = strings.TrimSpace(positionID)
	voted, err := h.Catalog.HasVoted(ctx, voterID, positionID)
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	return httptransport.HasVotedResponse{PositionID: positionID, HasVoted: voted}, nil
}

func (h Handler) VoterProgressHandler(ctx context.Context, voterID string) (httptransport.ProgressResponse, error) {
	progress, err := h.Catalog.VoterProgress(ctx, voterID)
	if err != nil {
		return httptransport.ProgressResponse{}, err
	}
	return httptransport.ProgressResponse{
		VoterID:       progress.VoterID,
		BallotsCast:   progress.BallotsCast,
		OpenPositions: progress.OpenPositions,
	}, nil
}

func (h Handler) PublishResultsHandler(ctx context.Context, publishedBy string, req httptransport.PublishResultsRequest) (httptransport.PublishResultsResponse, error) {
	result, err := h.Publish.PublishResults(ctx, commands.PublishResultsCommand{
		PositionID:  req.PositionID,
		PublishedBy: publishedBy,
	})
	if err != nil {
		return httptransport.PublishResultsResponse{}, err
	}
	return httptransport.PublishResultsResponse{
		PositionID:       result.Record.PositionID,
		PublishedBy:      result.Record.PublishedBy,
		PublishedAt:      result.Record.PublishedAt.Format(time.RFC3339),
		AlreadyPublished: result.AlreadyPublished,
	}, nil
}

// ResultsHandler serves the aggregate for a position when published. An
// unpublished position yields Published false with no aggregate computed.
func (h Handler) ResultsHandler(ctx context.Context, positionID string) (httptransport.ResultsResponse, error) {
	positionID = strings.TrimSpace(positionID)
	if positionID == "" {
		return httptransport.ResultsResponse{}, domainerrors.ErrInvalidBallotInput
	}
	published, err := h.Results.IsPublished(ctx, positionID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	if !published {
		return httptransport.ResultsResponse{Published: false}, nil
	}
	candidates, err := h.Catalog.ListCandidates(ctx, positionID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	aggregate, err := h.Results.AggregateVotes(ctx, positionID, candidates)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	return httptransport.ResultsResponse{Published: true, Result: &aggregate}, nil
}
