package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SessionDataURL is the only identity provider endpoint sessions are exchanged
// against. Callers cannot supply a redirect or callback URL.
const SessionDataURL = "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"

var (
	// ErrProviderRejected means the provider answered but refused the session id
	ErrProviderRejected = errors.New("identity provider rejected session")
	// ErrProviderUnavailable means the provider could not be reached
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// ProviderSession is the identity returned for an exchanged session id
type ProviderSession struct {
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture"`
	SessionToken string  `json:"session_token"`
}

// ProviderClient exchanges provider session ids for identities
type ProviderClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewProviderClient creates a client for SessionDataURL
func NewProviderClient(timeout time.Duration) *ProviderClient {
	return newProviderClient(&http.Client{Timeout: timeout}, SessionDataURL)
}

func newProviderClient(httpClient *http.Client, endpoint string) *ProviderClient {
	return &ProviderClient{httpClient: httpClient, endpoint: endpoint}
}

// Exchange resolves sessionID at the provider. Non-200 answers and unusable
// bodies yield ErrProviderRejected; transport failures yield ErrProviderUnavailable.
func (c *ProviderClient) Exchange(ctx context.Context, sessionID string) (*ProviderSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", ErrProviderRejected, resp.StatusCode)
	}

	var session ProviderSession
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrProviderRejected, err)
	}
	if session.Email == "" {
		return nil, fmt.Errorf("%w: response has no email", ErrProviderRejected)
	}
	return &session, nil
}
