package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"ballotbox/contexts/identity-access/session-resolver/application"
	"ballotbox/contexts/identity-access/session-resolver/domain/entities"
	httptransport "ballotbox/contexts/identity-access/session-resolver/transport/http"
)

type Handler struct {
	Resolver *application.Resolver
	Logger   *slog.Logger
}

func (h Handler) SignUpHandler(ctx context.Context, req httptransport.SignUpRequest) (httptransport.StatusResponse, error) {
	err := h.Resolver.SignUp(ctx, strings.TrimSpace(req.Email), req.Password, entities.Profile{
		Name:               strings.TrimSpace(req.Name),
		Department:         strings.TrimSpace(req.Department),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		PhoneNumber:        strings.TrimSpace(req.PhoneNumber),
	})
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) SignInHandler(ctx context.Context, req httptransport.SignInRequest) (httptransport.SessionResponse, error) {
	if err := h.Resolver.SignIn(ctx, strings.TrimSpace(req.Email), req.Password); err != nil {
		return httptransport.SessionResponse{}, err
	}
	return snapshotResponse(h.Resolver.Snapshot()), nil
}

func (h Handler) SignOutHandler(ctx context.Context) (httptransport.StatusResponse, error) {
	if err := h.Resolver.SignOut(ctx); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) SessionHandler(_ context.Context) httptransport.SessionResponse {
	return snapshotResponse(h.Resolver.Snapshot())
}

func snapshotResponse(snapshot entities.Snapshot) httptransport.SessionResponse {
	resp := httptransport.SessionResponse{
		Role:  string(snapshot.Role),
		Ready: snapshot.Ready,
	}
	if snapshot.Identity != nil {
		resp.IdentityID = snapshot.Identity.ID
		resp.Email = snapshot.Identity.Email
	}
	return resp
}
