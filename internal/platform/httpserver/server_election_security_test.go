package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	ballotservice "ballotbox/contexts/election-core/ballot-service"
	ballotcommands "ballotbox/contexts/election-core/ballot-service/application/commands"
	ballotentities "ballotbox/contexts/election-core/ballot-service/domain/entities"
	registryservice "ballotbox/contexts/election-core/registry-service"
	sessionresolver "ballotbox/contexts/identity-access/session-resolver"
)

func newTestServer() *Server {
	session := sessionresolver.NewInMemoryModule(slog.Default())
	session.Store.SetRoleAssignments("admin-1", "admin")
	session.Store.SetRoleAssignments("voter-1", "voter")
	return New(
		session,
		ballotservice.NewInMemoryModule(slog.Default()),
		registryservice.NewInMemoryModule(slog.Default()),
		slog.Default(),
		":0",
	)
}

func seedBallotCatalog(t *testing.T, server *Server) (ballotentities.Position, ballotentities.Candidate) {
	t.Helper()
	position := server.ballot.Store.SeedPosition(ballotentities.Position{Title: "President", Active: true})
	candidate := server.ballot.Store.SeedCandidate(ballotentities.Candidate{
		PositionID: position.PositionID,
		Name:       "Ada",
	})
	return position, candidate
}

func TestCastBallotRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	position, candidate := seedBallotCatalog(t, server)
	body, _ := json.Marshal(map[string]string{"candidate_id": candidate.CandidateID})

	req := httptest.NewRequest(http.MethodPost, "/api/election/v1/positions/"+position.PositionID+"/ballots", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRepeatCastReturnsConflict(t *testing.T) {
	server := newTestServer()
	position, candidate := seedBallotCatalog(t, server)
	body, _ := json.Marshal(map[string]string{"candidate_id": candidate.CandidateID})

	cast := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/election/v1/positions/"+position.PositionID+"/ballots", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-Id", "voter-1")
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		return rr
	}

	if rr := cast(); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first cast, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr := cast()
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeat cast, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code != "already_voted" {
		t.Fatalf("expected already_voted code, got %q", resp.Code)
	}
}

func TestPublishResultsRejectsNonAdmin(t *testing.T) {
	server := newTestServer()
	position, _ := seedBallotCatalog(t, server)

	req := httptest.NewRequest(http.MethodPost, "/api/election/v1/positions/"+position.PositionID+"/publish", nil)
	req.Header.Set("X-User-Id", "voter-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPublishResultsAllowsAdminAndIsIdempotent(t *testing.T) {
	server := newTestServer()
	position, _ := seedBallotCatalog(t, server)

	publish := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/election/v1/positions/"+position.PositionID+"/publish", nil)
		req.Header.Set("X-User-Id", "admin-1")
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		return rr
	}

	if rr := publish(); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on first publish, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr := publish()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat publish, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		AlreadyPublished bool `json:"already_published"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode publish body: %v", err)
	}
	if !resp.AlreadyPublished {
		t.Fatalf("expected repeat publish to report already_published")
	}
}

func TestResultsHiddenUntilPublished(t *testing.T) {
	server := newTestServer()
	position, _ := seedBallotCatalog(t, server)

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/election/v1/positions/"+position.PositionID+"/results", nil)
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		return rr
	}

	rr := get()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var before struct {
		Published bool `json:"published"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode results body: %v", err)
	}
	if before.Published {
		t.Fatalf("results should be hidden before publish")
	}

	if _, err := server.ballot.Publish.PublishResults(context.Background(),
		publishCommand(position.PositionID)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	rr = get()
	var after struct {
		Published bool `json:"published"`
		Result    *ballotentities.PositionResult
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode results body: %v", err)
	}
	if !after.Published || after.Result == nil {
		t.Fatalf("expected published results, got body=%s", rr.Body.String())
	}
}

func publishCommand(positionID string) ballotcommands.PublishResultsCommand {
	return ballotcommands.PublishResultsCommand{
		PositionID:  positionID,
		PublishedBy: "admin-1",
	}
}
