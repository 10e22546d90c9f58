package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riohdigital/digirioh-buddy-portal/internal/metrics"
)

const (
	googleTokenURL = "https://oauth2.googleapis.com/token"
	callTimeout    = 10 * time.Second

	// revokedGrantCode is the OAuth2 error code Google returns when a
	// refresh token has been revoked or expired for good.
	revokedGrantCode = "invalid_grant"
)

// Token is a successful token-endpoint response. RefreshToken is empty when
// the provider did not issue (or rotate) one.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// TokenError is returned for every failed token-endpoint call.
type TokenError struct {
	// StatusCode is the HTTP status, 0 for transport-level failures.
	StatusCode int
	// Code is the OAuth2 "error" field from the response body, if any.
	Code string
	// Timeout reports whether the call exceeded its deadline.
	Timeout bool
	Err     error
}

func (e *TokenError) Error() string {
	if e.Revoked() {
		return fmt.Sprintf("grant revoked: %v", e.Err)
	}
	return fmt.Sprintf("token request failed: %v", e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// Revoked reports whether the provider rejected the grant permanently.
func (e *TokenError) Revoked() bool { return e.Code == revokedGrantCode }

// Client calls the Google OAuth2 token endpoint with the registered client
// credentials.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string // configurable for testing
	httpClient   *http.Client
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     googleTokenURL,
		httpClient:   &http.Client{Timeout: callTimeout},
	}
}

// Refresh exchanges a refresh token for a fresh access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	return c.requestToken(ctx, data)
}

// ExchangeCode exchanges an authorization code for tokens. Google only
// includes a refresh token on consent-granting logins.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)
	return c.requestToken(ctx, data)
}

func (c *Client) requestToken(ctx context.Context, data url.Values) (*Token, error) {
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)
	grantType := data.Get("grant_type")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &TokenError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.GoogleTokenRequestDuration.WithLabelValues(grantType).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &TokenError{
			Timeout: isTimeout(err),
			Err:     fmt.Errorf("failed to execute token request: %w", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TokenError{
			StatusCode: resp.StatusCode,
			Timeout:    isTimeout(err),
			Err:        fmt.Errorf("failed to read token response: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Code        string `json:"error"`
			Description string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &errResp)

		return nil, &TokenError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Code,
			Err:        fmt.Errorf("token endpoint returned status %d: %s %s", resp.StatusCode, errResp.Code, errResp.Description),
		}
	}

	var result struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &TokenError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode token response: %w", err),
		}
	}
	if result.AccessToken == "" {
		return nil, &TokenError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("token response missing access_token"),
		}
	}

	return &Token{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
