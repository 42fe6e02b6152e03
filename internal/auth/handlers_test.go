package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/abbasrizvi-lab/todoapp/internal/errors"
)

func newTestHandlers() (*Handlers, *fakeUserStore) {
	store := newFakeUserStore()
	svc := NewService(store, "test-secret")
	return NewHandlers(svc), store
}

func doSignup(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
	w := httptest.NewRecorder()
	apperrors.HandleFunc(h.Signup).ServeHTTP(w, req)
	return w
}

func doLogin(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	apperrors.HandleFunc(h.Login).ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorBody {
	t.Helper()
	var resp apperrors.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "not json",
			body:       "{",
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidRequest,
		},
		{
			name:       "missing name",
			body:       `{"email":"t@example.com","password":"pw"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeValidationError,
			wantField:  "name",
		},
		{
			name:       "missing email",
			body:       `{"name":"T","password":"pw"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeValidationError,
			wantField:  "email",
		},
		{
			name:       "invalid email",
			body:       `{"name":"T","email":"notanemail","password":"pw"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeValidationError,
			wantField:  "email",
		},
		{
			name:       "missing password",
			body:       `{"name":"T","email":"t@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeValidationError,
			wantField:  "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandlers()
			w := doSignup(t, h, tt.body)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			body := decodeError(t, w)
			if body.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, body.Code)
			}
			if tt.wantField != "" {
				if _, ok := body.Details[tt.wantField]; !ok {
					t.Errorf("expected field error for %q, got %v", tt.wantField, body.Details)
				}
			}
		})
	}
}

func TestSignupSuccess(t *testing.T) {
	h, _ := newTestHandlers()

	w := doSignup(t, h, `{"name":"T","email":"t@example.com","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["name"] != "T" || resp["email"] != "t@example.com" {
		t.Errorf("unexpected response: %v", resp)
	}
	if id, _ := resp["id"].(string); id == "" {
		t.Error("expected a non-empty id")
	}
	for _, forbidden := range []string{"password", "password_hash"} {
		if _, ok := resp[forbidden]; ok {
			t.Errorf("response must not contain %q", forbidden)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, _ := newTestHandlers()

	if w := doSignup(t, h, `{"name":"T","email":"t@example.com","password":"pw"}`); w.Code != http.StatusOK {
		t.Fatalf("first signup failed: %d", w.Code)
	}

	w := doSignup(t, h, `{"name":"T2","email":"t@example.com","password":"pw2"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Code != apperrors.CodeEmailExists {
		t.Errorf("expected code %s, got %s", apperrors.CodeEmailExists, body.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	h, _ := newTestHandlers()

	if w := doSignup(t, h, `{"name":"T","email":"t@example.com","password":"pw"}`); w.Code != http.StatusOK {
		t.Fatalf("signup failed: %d", w.Code)
	}

	t.Run("unknown email", func(t *testing.T) {
		w := doLogin(t, h, `{"email":"missing@example.com","password":"pw"}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != apperrors.CodeUserNotFound {
			t.Errorf("expected code %s, got %s", apperrors.CodeUserNotFound, body.Code)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doLogin(t, h, `{"email":"t@example.com","password":"wrong"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != apperrors.CodeIncorrectPassword {
			t.Errorf("expected code %s, got %s", apperrors.CodeIncorrectPassword, body.Code)
		}
	})

	t.Run("correct credentials", func(t *testing.T) {
		w := doLogin(t, h, `{"email":"t@example.com","password":"pw"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var resp LoginResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.AccessToken == "" {
			t.Error("expected a non-empty access_token")
		}
		if resp.TokenType != "bearer" {
			t.Errorf("expected token_type bearer, got %q", resp.TokenType)
		}
		if resp.User == nil || resp.User.Email != "t@example.com" {
			t.Errorf("unexpected user in response: %+v", resp.User)
		}

		subject, err := h.authService.VerifyToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("issued token failed verification: %v", err)
		}
		if subject != "t@example.com" {
			t.Errorf("expected subject t@example.com, got %q", subject)
		}
	})
}

func TestLoginValidation(t *testing.T) {
	h, _ := newTestHandlers()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing email", body: `{"password":"pw"}`},
		{name: "invalid email", body: `{"email":"nope","password":"pw"}`},
		{name: "missing password", body: `{"email":"t@example.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doLogin(t, h, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
			if body := decodeError(t, w); body.Code != apperrors.CodeValidationError {
				t.Errorf("expected code %s, got %s", apperrors.CodeValidationError, body.Code)
			}
		})
	}
}

func TestSignupStoresVerifiableHash(t *testing.T) {
	h, store := newTestHandlers()

	if w := doSignup(t, h, `{"name":"T","email":"t@example.com","password":"pw"}`); w.Code != http.StatusOK {
		t.Fatalf("signup failed: %d", w.Code)
	}

	user, err := store.FindByEmail(context.Background(), "t@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if user.PasswordHash == "pw" {
		t.Error("password stored in the clear")
	}
	if !CheckPassword("pw", user.PasswordHash) {
		t.Error("stored hash does not verify the original password")
	}
}
