package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"ballotbox/contexts/identity-access/session-resolver/domain/entities"
	domainerrors "ballotbox/contexts/identity-access/session-resolver/domain/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Client is the AuthGateway adapter for the managed auth backend's HTTP API.
// It keeps the issued session locally, emits session-change events on its own
// stream, and runs a refresher that rotates the access token before expiry
// (emitting TOKEN_REFRESHED, which by contract never changes the role).
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger

	mu      sync.Mutex
	session *entities.Session
	events  chan entities.SessionEvent
	stop    chan struct{}
	once    sync.Once
}

func NewClient(baseURL string, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
		events:  make(chan entities.SessionEvent, 64),
		stop:    make(chan struct{}),
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type apiError struct {
	Message string `json:"msg"`
	Error   string `json:"error_description"`
}

func (c *Client) CurrentSession(ctx context.Context) (*entities.Session, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return nil, nil
	}
	// Validate the stored token against the backend before trusting it.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	c.decorate(req, session.AccessToken)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth backend user check: status %d", resp.StatusCode)
	}
	copied := *session
	return &copied, nil
}

func (c *Client) SignIn(ctx context.Context, email string, password string) (*entities.Session, error) {
	token, err := c.requestToken(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	session := c.sessionFromToken(token)
	c.install(session)
	c.emit(entities.SessionEvent{Kind: entities.EventSignedIn, Session: session})
	copied := *session
	return &copied, nil
}

func (c *Client) SignUp(ctx context.Context, email string, password string) (*entities.Session, error) {
	token, err := c.requestToken(ctx, "/auth/v1/signup", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	session := c.sessionFromToken(token)
	c.install(session)
	c.emit(entities.SessionEvent{Kind: entities.EventSignedIn, Session: session})
	copied := *session
	return &copied, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session != nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
		if err != nil {
			return err
		}
		c.decorate(req, session.AccessToken)
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		_ = resp.Body.Close()
	}
	c.emit(entities.SessionEvent{Kind: entities.EventSignedOut})
	return nil
}

func (c *Client) Events() <-chan entities.SessionEvent {
	return c.events
}

// RunRefresher rotates the access token shortly before expiry. Each rotation
// emits TOKEN_REFRESHED with the updated credential.
func (c *Client) RunRefresher(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		session := c.session
		c.mu.Unlock()
		if session == nil || time.Until(session.ExpiresAt) > 2*time.Minute {
			continue
		}

		token, err := c.requestToken(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{
			"refresh_token": session.RefreshToken,
		})
		if err != nil {
			c.logger.Warn("token refresh failed",
				"event", "authapi_refresh_failed",
				"module", "identity-access/session-resolver",
				"layer", "adapter",
				"error", err.Error(),
			)
			continue
		}
		refreshed := c.sessionFromToken(token)
		c.install(refreshed)
		c.emit(entities.SessionEvent{Kind: entities.EventTokenRefreshed, Session: refreshed})
	}
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.stop)
		close(c.events)
	})
}

func (c *Client) requestToken(ctx context.Context, path string, payload map[string]string) (tokenResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return tokenResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return tokenResponse{}, err
	}
	c.decorate(req, "")
	resp, err := c.http.Do(req)
	if err != nil {
		return tokenResponse{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokenResponse{}, err
	}
	if resp.StatusCode != http.StatusOK {
		var failure apiError
		if err := json.Unmarshal(raw, &failure); err == nil {
			message := failure.Message
			if message == "" {
				message = failure.Error
			}
			if message != "" {
				// Backend message text is surfaced verbatim to the caller.
				return tokenResponse{}, errors.New(message)
			}
		}
		return tokenResponse{}, domainerrors.ErrInvalidCredentials
	}
	var token tokenResponse
	if err := json.Unmarshal(raw, &token); err != nil {
		return tokenResponse{}, err
	}
	return token, nil
}

// sessionFromToken builds the session, preferring identity fields from the
// signed token claims over the response body so both stay consistent.
func (c *Client) sessionFromToken(token tokenResponse) *entities.Session {
	identity := entities.Identity{ID: token.User.ID, Email: token.User.Email}
	expiresAt := time.Now().UTC().Add(time.Duration(token.ExpiresIn) * time.Second)

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token.AccessToken, claims); err == nil {
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			identity.ID = sub
		}
		if email, ok := claims["email"].(string); ok && email != "" {
			identity.Email = email
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			expiresAt = exp.Time.UTC()
		}
	}

	return &entities.Session{
		Identity:     identity,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

func (c *Client) install(session *entities.Session) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
}

func (c *Client) emit(event entities.SessionEvent) {
	select {
	case c.events <- event:
	default:
		c.logger.Warn("dropping session event for slow consumer",
			"event", "authapi_event_drop",
			"module", "identity-access/session-resolver",
			"layer", "adapter",
			"kind", string(event.Kind),
		)
	}
}

func (c *Client) decorate(req *http.Request, bearer string) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
}
