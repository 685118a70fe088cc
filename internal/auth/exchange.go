// Package auth manages the OAuth2 credential used for Google Ads API calls:
// a refresh-token exchange client and a store that keeps the cached access
// token fresh with at most one in-flight refresh at a time.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

const (
	defaultTokenURL        = "https://oauth2.googleapis.com/token"
	defaultRefreshMargin   = 60 * time.Second
	defaultExchangeTimeout = 30 * time.Second

	maxTokenResponseBytes = 1 << 20
)

// Config holds OAuth2 and developer credentials.
type Config struct {
	ClientID        string        `yaml:"client_id"`
	ClientSecret    string        `yaml:"client_secret"`
	RefreshToken    string        `yaml:"refresh_token"`
	DeveloperToken  string        `yaml:"developer_token"`
	LoginCustomerID string        `yaml:"login_customer_id"`
	TokenURL        string        `yaml:"token_url"`
	RefreshMargin   time.Duration `yaml:"refresh_margin"`
	ExchangeTimeout time.Duration `yaml:"exchange_timeout"`
}

// Validate checks that the fields required for a refresh exchange are present.
func (c Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.RefreshToken == "" {
		missing = append(missing, "refresh_token")
	}
	if c.DeveloperToken == "" {
		missing = append(missing, "developer_token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("auth config missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Error reports a failed credential exchange. Exchanges are never retried
// internally, so every Error is terminal for the operation that needed it.
type Error struct {
	Code        string // OAuth error code, e.g. "invalid_grant"
	Description string
	Err         error
}

func (e *Error) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("auth: %s: %s", e.Code, e.Description)
	case e.Code != "":
		return fmt.Sprintf("auth: %s", e.Code)
	case e.Err != nil:
		return fmt.Sprintf("auth: %v", e.Err)
	}
	return "auth: credential exchange failed"
}

func (e *Error) Unwrap() error { return e.Err }

// Exchanger performs a refresh-token exchange against the auth provider.
type Exchanger interface {
	Refresh(ctx context.Context, refreshToken string) (domain.Credential, error)
}

// TokenClient exchanges a refresh token for a fresh access token against
// the OAuth2 token endpoint.
type TokenClient struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

// NewTokenClient creates an exchange client. Zero config fields get defaults.
func NewTokenClient(cfg Config) *TokenClient {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.ExchangeTimeout <= 0 {
		cfg.ExchangeTimeout = defaultExchangeTimeout
	}
	return &TokenClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.ExchangeTimeout,
		},
		now: time.Now,
	}
}

// Refresh performs a single refresh_token grant. Failures are returned as
// *Error and are not retried here.
func (c *TokenClient) Refresh(ctx context.Context, refreshToken string) (domain.Credential, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"refresh_token": {refreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Credential{}, &Error{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Credential{}, &Error{Err: fmt.Errorf("token endpoint: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return domain.Credential{}, &Error{Err: fmt.Errorf("read token response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var oauthErr struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if jsonErr := json.Unmarshal(body, &oauthErr); jsonErr == nil && oauthErr.Error != "" {
			return domain.Credential{}, &Error{Code: oauthErr.Error, Description: oauthErr.Description}
		}
		return domain.Credential{}, &Error{Err: fmt.Errorf("token endpoint returned http %d", resp.StatusCode)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Credential{}, &Error{Err: fmt.Errorf("decode token response: %w", err)}
	}
	if payload.AccessToken == "" {
		return domain.Credential{}, &Error{Err: fmt.Errorf("token response has no access_token")}
	}
	expiresIn := payload.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	return domain.Credential{
		AccessToken:  payload.AccessToken,
		RefreshToken: refreshToken,
		Expiry:       c.now().Add(time.Duration(expiresIn) * time.Second),
		CustomerID:   c.cfg.LoginCustomerID,
	}, nil
}
