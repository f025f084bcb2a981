// Package notify delivers one-time login codes. Delivery is fire-and-forget:
// failures are logged and retried by the worker, never surfaced to the
// caller who requested the code.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// HTTP client timeouts for the mail API.
const (
	clientTimeout         = 30 * time.Second
	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 15 * time.Second
)

// Sender delivers a one-time code to an email address.
type Sender interface {
	Send(ctx context.Context, email, code string) error
}

// NewHTTPClient creates an HTTP client configured for mail API calls.
// It has appropriate timeouts and does not follow redirects.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: clientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// HTTPSender posts codes to an HTTP mail API.
type HTTPSender struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewHTTPSender creates a sender for the given mail API endpoint.
func NewHTTPSender(apiURL, apiKey, from string, client *http.Client) *HTTPSender {
	if client == nil {
		client = NewHTTPClient()
	}
	return &HTTPSender{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: client,
	}
}

type mailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send posts the code to the mail API.
func (s *HTTPSender) Send(ctx context.Context, email, code string) error {
	payload := mailRequest{
		From:    s.from,
		To:      email,
		Subject: "Your login code",
		Text:    fmt.Sprintf("Your one-time login code is %s. It expires in 10 minutes.", code),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("User-Agent", "Agenthub-Notify/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned %d", resp.StatusCode)
	}

	return nil
}

// LogSender writes codes to the log instead of delivering them.
// Development fallback when no mail API is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the code.
func (s *LogSender) Send(ctx context.Context, email, code string) error {
	s.logger.Info("otp code issued",
		slog.String("email", email),
		slog.String("code", code),
	)
	return nil
}
