// Package oauth exchanges authorization codes with an external identity
// provider for user profile data.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrExchangeFailed indicates the provider rejected the code exchange or
// the profile fetch. The underlying cause is wrapped for logs, never for
// the client.
var ErrExchangeFailed = errors.New("oauth exchange failed")

// Profile is the identity data returned by the provider.
type Profile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Provider exchanges an authorization code for a user profile.
type Provider interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*Profile, error)
}

// Config holds provider endpoints and client credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
}

// Client is a Provider over a standard OAuth2 code flow: exchange the code
// at the token endpoint, then fetch the userinfo document with the
// resulting access token.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates an OAuth provider client.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// ExchangeCode trades an authorization code for the user's profile.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*Profile, error) {
	conf := &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.cfg.AuthURL,
			TokenURL: c.cfg.TokenURL,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	return c.fetchProfile(ctx, conf, token)
}

func (c *Client) fetchProfile(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	resp, err := conf.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned %d", ErrExchangeFailed, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: profile missing email", ErrExchangeFailed)
	}

	return &profile, nil
}
