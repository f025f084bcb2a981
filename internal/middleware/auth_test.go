package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agenthub/agenthub/internal/auth"
)

func newTestAuth(t *testing.T) (*auth.Codec, func(http.Handler) http.Handler) {
	t.Helper()

	codec, err := auth.NewCodec("s3cr3t-key-32chars-minimum-len!!")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return codec, Auth(AuthConfig{Logger: logger, Codec: codec})
}

func TestAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	_, mw := newTestAuth(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without a credential")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations", nil)
	rec := httptest.NewRecorder()

	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "MISSING_CREDENTIAL")
}

func TestAuth_WrongScheme(t *testing.T) {
	t.Parallel()

	_, mw := newTestAuth(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "MISSING_CREDENTIAL")
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	_, mw := newTestAuth(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()

	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "INVALID_CREDENTIAL")
}

func TestAuth_ValidTokenBindsIdentity(t *testing.T) {
	t.Parallel()

	codec, mw := newTestAuth(t)

	token, err := codec.Sign(auth.Claims{UserID: "user-42", Email: "u@example.com"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			t.Fatal("identity missing from context")
		}
		if identity.UserID != "user-42" || identity.Email != "u@example.com" {
			t.Errorf("unexpected identity: %+v", identity)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw(next).ServeHTTP(rec, req)

	if !called {
		t.Error("handler should have been called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != want {
		t.Errorf("expected error code %s, got %s", want, body.Error.Code)
	}
}
