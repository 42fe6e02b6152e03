package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/abbasrizvi-lab/todoapp/internal/errors"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func TestHealthzOK(t *testing.T) {
	handler := NewHandler(fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
	w := httptest.NewRecorder()
	apperrors.HandleFunc(handler.Healthz).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.DBConnection != "ok" {
		t.Errorf("unexpected body: %+v", resp)
	}
}

func TestHealthzStoreUnreachable(t *testing.T) {
	handler := NewHandler(fakePinger{err: errors.New("server selection timeout")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
	w := httptest.NewRecorder()
	apperrors.HandleFunc(handler.Healthz).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	var resp apperrors.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apperrors.CodeDatabaseError {
		t.Errorf("expected code %s, got %s", apperrors.CodeDatabaseError, resp.Error.Code)
	}
	// driver details stay out of the response
	if resp.Error.Message != "database connection failed" {
		t.Errorf("unexpected message %q", resp.Error.Message)
	}
}
