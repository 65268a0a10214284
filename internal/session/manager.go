// ABOUTME: Session manager for the hosted auth namespace
// ABOUTME: Owns credentials, refresh, restore, and write-through session persistence

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/2389/minilist/internal/model"
	"github.com/2389/minilist/internal/remote"
)

// State is the session lifecycle state. Authenticating and Refreshing are
// transient: within one dispatched command the manager always settles on
// Anonymous or Authenticated before returning.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateRefreshing     State = "refreshing"
)

// Persister is the slice of the store the manager writes sessions through.
type Persister interface {
	Session() *model.Session
	SaveSession(s *model.Session) error
	ClearSession() error
}

// Manager owns the one live session per client. It is not safe for
// concurrent use on its own; the command dispatcher serializes access.
type Manager struct {
	baseURL string
	apiKey  string
	store   Persister
	http    *http.Client
	logger  *slog.Logger

	session *model.Session
	state   State
}

// NewManager creates a session manager against the auth namespace rooted
// at baseURL (the service base, without the /auth/v1 prefix).
func NewManager(baseURL, apiKey string, store Persister) *Manager {
	return &Manager{
		baseURL: baseURL,
		apiKey:  apiKey,
		store:   store,
		http:    http.DefaultClient,
		logger:  slog.Default().With("component", "session"),
		state:   StateAnonymous,
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func (m *Manager) WithHTTPClient(h *http.Client) *Manager {
	m.http = h
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// CurrentUser is derived from the live session; it is nil whenever the
// manager is Anonymous. The user record is never stored independently of
// the session, so both always clear together.
func (m *Manager) CurrentUser() *model.User {
	if m.session == nil {
		return nil
	}
	return m.session.User
}

// AccessToken returns the bearer token of the live session, or "".
func (m *Manager) AccessToken() string {
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

// TokenExpiry peeks at the unverified exp claim of the access token, for
// display and logging only. The token is opaque to this client; the
// service is the verifier. Returns the zero time when the token carries no
// readable expiry.
func (m *Manager) TokenExpiry() time.Time {
	if m.session == nil {
		return time.Time{}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(m.session.AccessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// tokenResponse is the body of both token grants.
type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user"`
}

// Login exchanges credentials for a session. On success the manager
// becomes Authenticated and the session is persisted; on any failure it
// stays Anonymous and the error carries the message the service embedded
// in the response body.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.state = StateAuthenticating

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	payload, err := m.authRequest(ctx, http.MethodPost, "/token?grant_type=password", body, "")
	if err != nil {
		m.state = StateAnonymous
		return err
	}

	var resp tokenResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		m.state = StateAnonymous
		return fmt.Errorf("decoding token response: %w", err)
	}

	m.session = &model.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}
	m.persist()
	m.state = StateAuthenticated

	m.logger.Info("logged in", "expires", m.TokenExpiry())
	return nil
}

// Signup registers a new account. Auth state does not change: there is no
// auto-login, the user confirms their email and then logs in. The returned
// message is the instruction to show.
func (m *Manager) Signup(ctx context.Context, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	if _, err := m.authRequest(ctx, http.MethodPost, "/signup", body, ""); err != nil {
		return "", err
	}

	return "Account created. Check your email if confirmation is enabled, then log in.", nil
}

// Logout tells the service to revoke the session, best effort, then
// unconditionally clears all session state. The manager is Anonymous
// afterwards even when the revoke call failed.
func (m *Manager) Logout(ctx context.Context) {
	if token := m.AccessToken(); token != "" {
		if _, err := m.authRequest(ctx, http.MethodPost, "/logout", nil, token); err != nil {
			m.logger.Debug("logout revoke failed, clearing anyway", "error", err)
		}
	}

	m.clear()
}

// Refresh exchanges the refresh token for a new token pair. On success
// both tokens are replaced and persisted; the prior user is kept when the
// response omits one. On failure it reports false without clearing
// anything — the state transition belongs to the caller.
func (m *Manager) Refresh(ctx context.Context) bool {
	if m.session == nil || m.session.RefreshToken == "" {
		return false
	}

	prev := m.state
	m.state = StateRefreshing

	body, _ := json.Marshal(map[string]string{"refresh_token": m.session.RefreshToken})
	payload, err := m.authRequest(ctx, http.MethodPost, "/token?grant_type=refresh_token", body, "")
	if err != nil {
		m.state = prev
		m.logger.Debug("refresh failed", "error", err)
		return false
	}

	var resp tokenResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		m.state = prev
		m.logger.Warn("refresh response malformed", "error", err)
		return false
	}

	user := resp.User
	if user == nil {
		user = m.session.User
	}
	m.session = &model.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         user,
	}
	m.persist()
	m.state = prev

	m.logger.Debug("session refreshed", "expires", m.TokenExpiry())
	return true
}

// Restore rebuilds an authenticated session on startup from the persisted
// blob. A stored refresh token is exchanged first; only then is the user
// record fetched. Any irrecoverable failure clears everything and leaves
// the manager Anonymous, so a stale session can never present item data.
func (m *Manager) Restore(ctx context.Context) {
	stored := m.store.Session()
	if stored == nil || stored.RefreshToken == "" {
		m.clear()
		return
	}
	m.session = stored

	if !m.Refresh(ctx) {
		m.logger.Info("stored session no longer valid")
		m.clear()
		return
	}

	user := m.fetchUser(ctx)
	if user == nil {
		m.clear()
		return
	}

	m.session.User = user
	m.persist()
	m.state = StateAuthenticated

	m.logger.Info("session restored", "email", user.Email, "expires", m.TokenExpiry())
}

// fetchUser gets the current user record, refreshing and retrying once
// when the first attempt is rejected.
func (m *Manager) fetchUser(ctx context.Context) *model.User {
	if user := m.fetchUserOnce(ctx); user != nil {
		return user
	}

	if !m.Refresh(ctx) || m.AccessToken() == "" {
		return nil
	}

	return m.fetchUserOnce(ctx)
}

func (m *Manager) fetchUserOnce(ctx context.Context) *model.User {
	payload, err := m.authRequest(ctx, http.MethodGet, "/user", nil, m.AccessToken())
	if err != nil {
		m.logger.Debug("fetching user failed", "error", err)
		return nil
	}

	var user model.User
	if err := json.Unmarshal(payload, &user); err != nil || user.ID == "" {
		return nil
	}
	return &user
}

// persist writes the live session through to the store.
func (m *Manager) persist() {
	if err := m.store.SaveSession(m.session); err != nil {
		m.logger.Error("persisting session failed", "error", err)
	}
}

// clear drops the session and user together, in memory and on disk.
func (m *Manager) clear() {
	m.session = nil
	m.state = StateAnonymous
	if err := m.store.ClearSession(); err != nil {
		m.logger.Error("clearing persisted session failed", "error", err)
	}
}

// authRequest performs one request against the auth namespace. No retry
// here: refresh handling lives above this level. bearer is optional.
func (m *Manager) authRequest(ctx context.Context, method, path string, body []byte, bearer string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+"/auth/v1"+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("apikey", m.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, remote.DecodeError(resp.StatusCode, raw)
	}

	return raw, nil
}
