package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPSender_Send(t *testing.T) {
	t.Parallel()

	var (
		gotAuth        string
		gotContentType string
		gotUserAgent   string
		gotBody        mailRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotUserAgent = r.Header.Get("User-Agent")

		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("decode mail request: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := NewHTTPSender(srv.URL, "test-mail-key", "login@example.com", srv.Client())

	if err := sender.Send(context.Background(), "user@example.com", "123456"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotAuth != "Bearer test-mail-key" {
		t.Errorf("Authorization mismatch: got %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type mismatch: got %q", gotContentType)
	}
	if gotUserAgent != "Agenthub-Notify/1.0" {
		t.Errorf("User-Agent mismatch: got %q", gotUserAgent)
	}
	if gotBody.From != "login@example.com" {
		t.Errorf("From mismatch: got %q", gotBody.From)
	}
	if gotBody.To != "user@example.com" {
		t.Errorf("To mismatch: got %q", gotBody.To)
	}
	if !strings.Contains(gotBody.Text, "123456") {
		t.Errorf("Body should contain the code, got %q", gotBody.Text)
	}
	if strings.Contains(gotBody.Subject, "123456") {
		t.Error("Subject should not leak the code")
	}
}

func TestHTTPSender_Send_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sender := NewHTTPSender(srv.URL, "test-mail-key", "login@example.com", srv.Client())

	err := sender.Send(context.Background(), "user@example.com", "123456")
	if err == nil {
		t.Fatal("Expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("Error should carry the status code, got: %v", err)
	}
}

func TestHTTPSender_Send_DoesNotFollowRedirects(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://attacker.example.com/", http.StatusTemporaryRedirect)
	}))
	defer srv.Close()

	// Default client: redirects must be treated as failures, never followed.
	sender := NewHTTPSender(srv.URL, "test-mail-key", "login@example.com", nil)

	err := sender.Send(context.Background(), "user@example.com", "123456")
	if err == nil {
		t.Fatal("Expected error for redirect response")
	}
}

func TestLogSender_Send(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sender := NewLogSender(logger)

	if err := sender.Send(context.Background(), "user@example.com", "654321"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "654321") {
		t.Error("Log output should contain the code")
	}
	if !strings.Contains(out, "user@example.com") {
		t.Error("Log output should contain the recipient")
	}
}
