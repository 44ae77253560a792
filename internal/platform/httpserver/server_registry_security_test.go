package httpserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegistryCreatePositionRequiresAdmin(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"title":"President"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/registry/v1/positions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "voter-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegistryCreatePositionRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"title":"President"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/registry/v1/positions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegistryCreatePositionAllowsAdmin(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"title":"President","description":"chief officer"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/registry/v1/positions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "admin-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegistryDeleteCandidateRequiresAdmin(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/api/registry/v1/candidates/candidate-1", nil)
	req.Header.Set("X-User-Id", "voter-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}
