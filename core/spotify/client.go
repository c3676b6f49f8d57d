package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rhythmbox/config"
	"rhythmbox/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Client talks to the Spotify Web API. User-scoped calls take the caller's
// OAuth token; catalog calls (search, artist metadata) use an app-level
// client-credentials token so they work without a logged-in user.
type Client struct {
	conf       *oauth2.Config
	public     *clientcredentials.Config
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a Spotify API client from application credentials.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.SpotifyClientID,
			ClientSecret: cfg.SpotifyClientSecret,
			RedirectURL:  cfg.SpotifyRedirectURL,
			Scopes: []string{
				"user-read-private",
				"user-library-read",
				"user-library-modify",
				"playlist-read-private",
				"playlist-modify-public",
				"playlist-modify-private",
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.SpotifyAccountsURL + "/authorize",
				TokenURL: cfg.SpotifyAccountsURL + "/api/token",
			},
		},
		public: &clientcredentials.Config{
			ClientID:     cfg.SpotifyClientID,
			ClientSecret: cfg.SpotifyClientSecret,
			TokenURL:     cfg.SpotifyAccountsURL + "/api/token",
		},
		apiURL: cfg.SpotifyAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (c *Client) AuthURL(state string) string {
	return c.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

// Refresh returns a fresh token when the given one has expired; otherwise
// it returns the token unchanged.
func (c *Client) Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok.Valid() {
		return tok, nil
	}
	fresh, err := c.conf.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return fresh, nil
}

// APIError is a non-success response from the Spotify API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: %s (status %d)", e.Message, e.Status)
}

// do performs an authenticated request and decodes the JSON response into
// result. tok may be nil for calls authenticated with the app token.
func (c *Client) do(ctx context.Context, tok *oauth2.Token, method, endpoint string, body io.Reader, result interface{}) error {
	if tok == nil {
		appTok, err := c.public.TokenSource(ctx).Token()
		if err != nil {
			return fmt.Errorf("failed to obtain app token: %w", err)
		}
		tok = appTok
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Error struct {
				Status  int    `json:"status"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		}
		logger.Warn("spotify API returned an error",
			logger.String("endpoint", endpoint),
			logger.Int("status", resp.StatusCode),
			logger.String("message", apiErr.Message))
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// TestConnection probes the API with an unauthenticated catalog call.
// Used by the health endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	// A one-item search exercises both the token endpoint and the API.
	_, err := c.SearchTracks(ctx, "test", 1)
	return err
}
