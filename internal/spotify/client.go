// Package spotify is a thin client for the Spotify Web API: OAuth token
// lifecycle plus the playback and library calls the player UI needs.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Vincent1Vincent2/spotipi-go/internal/config"
	"github.com/Vincent1Vincent2/spotipi-go/internal/session"
	"golang.org/x/oauth2"
)

const (
	defaultAuthURL  = "https://accounts.spotify.com/authorize"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
	defaultBaseURL  = "https://api.spotify.com/v1"
)

// Scopes requested during the authorization-code flow.
var scopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"streaming",
	"playlist-read-private",
	"user-library-read",
}

var (
	// ErrNotConfigured means the wizard has not stored Spotify credentials yet.
	ErrNotConfigured = errors.New("spotify credentials not configured")
	// ErrNotAuthenticated means no OAuth token is available (or refresh failed).
	ErrNotAuthenticated = errors.New("not authenticated with Spotify")

	errNoContent = errors.New("no content")
)

// APIError is a non-2xx response from the Spotify Web API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the Spotify Web API on behalf of the appliance's single
// operator. Credentials come from the config store on every call, so a
// wizard re-run takes effect without a restart.
type Client struct {
	store    config.Store
	sessions *session.Store

	baseURL  string
	endpoint oauth2.Endpoint
	http     *http.Client
}

// New creates a Client backed by the given config and session stores.
func New(store config.Store, sessions *session.Store) *Client {
	return &Client{
		store:    store,
		sessions: sessions,
		baseURL:  defaultBaseURL,
		endpoint: oauth2.Endpoint{AuthURL: defaultAuthURL, TokenURL: defaultTokenURL},
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) oauthConfig() (*oauth2.Config, error) {
	cfg, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}
	return &oauth2.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURL:  cfg.Spotify.RedirectURI,
		Scopes:       scopes,
		Endpoint:     c.endpoint,
	}, nil
}

// AuthURL returns the Spotify authorization URL for the given state token.
func (c *Client) AuthURL(state string) (string, error) {
	conf, err := c.oauthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL(state), nil
}

// Exchange trades an authorization code for a token and persists it.
func (c *Client) Exchange(ctx context.Context, code string) error {
	conf, err := c.oauthConfig()
	if err != nil {
		return err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("code exchange: %w", err)
	}
	return c.sessions.Save(tok)
}

// Authenticated reports whether a token is stored.
func (c *Client) Authenticated() bool {
	tok, err := c.sessions.Load()
	return err == nil && tok != nil
}

// Logout discards the stored token.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

// token returns a valid access token, refreshing and re-persisting it when
// needed. A failed refresh clears the session so the UI falls back to login.
func (c *Client) token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := c.sessions.Load()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, ErrNotAuthenticated
	}

	conf, err := c.oauthConfig()
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	fresh, err := conf.TokenSource(ctx, tok).Token()
	if err != nil {
		slog.Warn("spotify: token refresh failed, clearing session", "err", err)
		_ = c.sessions.Clear()
		return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if fresh.AccessToken != tok.AccessToken {
		if err := c.sessions.Save(fresh); err != nil {
			slog.Warn("spotify: could not persist refreshed token", "err", err)
		}
	}
	return fresh, nil
}

// AccessToken exposes the current access token and its expiry for the web
// playback SDK running in the browser.
func (c *Client) AccessToken(ctx context.Context) (string, time.Time, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok.AccessToken, tok.Expiry, nil
}

// doRequest performs an authenticated API call. body (if non-nil) is sent as
// JSON; out (if non-nil) receives the decoded response. A 204 reply with a
// non-nil out returns errNoContent for the caller to interpret.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("spotify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		var parsed apiErrorResponse
		if json.NewDecoder(resp.Body).Decode(&parsed) == nil && parsed.Error.Message != "" {
			apiErr.Message = parsed.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if resp.StatusCode == http.StatusNoContent {
		return errNoContent
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode spotify response: %w", err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}

func pageQuery(limit, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(clampLimit(limit)))
	q.Set("offset", fmt.Sprint(offset))
	return q
}
