// ABOUTME: End-to-end tests for the cloud variant front end
// ABOUTME: A fake hosted service backs login, refresh, and the items table

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/minilist/internal/list"
	"github.com/2389/minilist/internal/model"
	"github.com/2389/minilist/internal/remote"
	"github.com/2389/minilist/internal/session"
	"github.com/2389/minilist/internal/store"
)

// fakeService stands in for the hosted backend: both the auth namespace
// and the items table.
type fakeService struct {
	t  *testing.T
	mu sync.Mutex

	password    string
	user        model.User
	validAccess map[string]bool
	refreshTok  string
	rows        []model.Item
	counter     int
}

func newFakeService(t *testing.T) *fakeService {
	return &fakeService{
		t:           t,
		password:    "correct horse",
		user:        model.User{ID: "user-1", Email: "a@example.com"},
		validAccess: map[string]bool{},
		refreshTok:  "refresh-0",
	}
}

// expireAccess invalidates every access token; refresh still works.
func (s *fakeService) expireAccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validAccess = map[string]bool{}
}

// revokeAll invalidates access and refresh tokens alike.
func (s *fakeService) revokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validAccess = map[string]bool{}
	s.refreshTok = "revoked"
}

func (s *fakeService) mint() (access, refresh string) {
	s.counter++
	access = fmt.Sprintf("access-%d", s.counter)
	refresh = fmt.Sprintf("refresh-%d", s.counter)
	s.validAccess[access] = true
	s.refreshTok = refresh
	return access, refresh
}

func (s *fakeService) bearerOK(r *http.Request) bool {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return s.validAccess[token]
}

func (s *fakeService) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		writeError := func(status int, msg string) {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"msg": msg})
		}

		if r.Header.Get("apikey") == "" {
			writeError(http.StatusUnauthorized, "No API key found in request")
			return
		}

		switch {
		case r.URL.Path == "/auth/v1/token":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)

			switch r.URL.Query().Get("grant_type") {
			case "password":
				if body["password"] != s.password {
					writeError(http.StatusBadRequest, "Invalid login credentials")
					return
				}
			case "refresh_token":
				if body["refresh_token"] != s.refreshTok {
					writeError(http.StatusBadRequest, "Invalid Refresh Token")
					return
				}
			default:
				writeError(http.StatusBadRequest, "unsupported grant")
				return
			}

			access, refresh := s.mint()
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  access,
				"refresh_token": refresh,
				"user":          s.user,
			})

		case r.URL.Path == "/auth/v1/user":
			if !s.bearerOK(r) {
				writeError(http.StatusUnauthorized, "JWT expired")
				return
			}
			json.NewEncoder(w).Encode(s.user)

		case r.URL.Path == "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)

		case r.URL.Path == "/rest/v1/items":
			if !s.bearerOK(r) {
				writeError(http.StatusUnauthorized, "JWT expired")
				return
			}

			switch r.Method {
			case http.MethodGet:
				json.NewEncoder(w).Encode(s.rows)

			case http.MethodPost:
				var body struct {
					Text   string `json:"text"`
					Done   bool   `json:"done"`
					UserID string `json:"user_id"`
				}
				require.NoError(s.t, json.NewDecoder(r.Body).Decode(&body))
				require.Equal(s.t, s.user.ID, body.UserID)

				s.counter++
				row := model.Item{
					ID:        fmt.Sprintf("srv-%d", s.counter),
					Text:      body.Text,
					Done:      body.Done,
					CreatedAt: time.Now().UTC(),
				}
				// Newest first, the order the list query returns.
				s.rows = append([]model.Item{row}, s.rows...)

				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode([]model.Item{row})

			case http.MethodPatch:
				id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
				var body struct {
					Done bool `json:"done"`
				}
				require.NoError(s.t, json.NewDecoder(r.Body).Decode(&body))
				for i := range s.rows {
					if s.rows[i].ID == id {
						s.rows[i].Done = body.Done
					}
				}
				w.WriteHeader(http.StatusNoContent)

			case http.MethodDelete:
				id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
				var kept []model.Item
				for _, row := range s.rows {
					if row.ID != id {
						kept = append(kept, row)
					}
				}
				s.rows = kept
				w.WriteHeader(http.StatusNoContent)
			}

		default:
			writeError(http.StatusNotFound, "no such endpoint")
		}
	}
}

// cloudFixture wires a full cloud app against the fake service.
type cloudFixture struct {
	svc        *fakeService
	store      *store.SQLiteStore
	backendURL string
	ui         *httptest.Server
}

func setupCloudApp(t *testing.T) *cloudFixture {
	t.Helper()

	svc := newFakeService(t)
	backend := httptest.NewServer(svc.handler())
	t.Cleanup(backend.Close)

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f := &cloudFixture{svc: svc, store: s, backendURL: backend.URL}
	f.ui = f.newUI(t)
	return f
}

// newUI builds a fresh app (fresh session manager and controller) over the
// same store, simulating a new process start.
func (f *cloudFixture) newUI(t *testing.T) *httptest.Server {
	t.Helper()

	sessions := session.NewManager(f.backendURL, "anon-key", f.store)
	client := remote.NewClient(f.backendURL, "anon-key", sessions)
	ctrl := list.NewRemoteController(client, sessions)

	app := NewCloudApp(sessions, ctrl)
	app.Restore(t.Context())

	srv := httptest.NewServer(app.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func (f *cloudFixture) login(t *testing.T, password string) string {
	t.Helper()
	return postForm(t, f.ui, "/login", url.Values{
		"email":    {"a@example.com"},
		"password": {password},
	})
}

func TestCloud_StartsOnAuthScreen(t *testing.T) {
	f := setupCloudApp(t)

	page := getPage(t, f.ui, "/")
	assert.Contains(t, page, `action="/login"`)
	assert.Contains(t, page, `action="/signup"`)
	assert.NotContains(t, page, "item-list")
}

func TestCloud_LoginWrongPassword(t *testing.T) {
	f := setupCloudApp(t)

	page := f.login(t, "wrong")
	assert.Contains(t, page, "Could not log in: Invalid login credentials")
	assert.Contains(t, page, "status-error")
	// Still on the auth screen, no user shown.
	assert.Contains(t, page, `action="/login"`)
	assert.NotContains(t, page, "a@example.com")
}

func TestCloud_LoginShowsApp(t *testing.T) {
	f := setupCloudApp(t)

	page := f.login(t, "correct horse")
	assert.Contains(t, page, "a@example.com")
	assert.Contains(t, page, `action="/logout"`)
	assert.Contains(t, page, "No items yet.")
	assert.NotContains(t, page, `action="/login"`)
}

func TestCloud_Signup(t *testing.T) {
	f := setupCloudApp(t)

	page := postForm(t, f.ui, "/signup", url.Values{
		"email":    {"b@example.com"},
		"password": {"pw"},
	})
	// No auto-login: still the auth screen, with the instruction shown.
	assert.Contains(t, page, "Check your email")
	assert.Contains(t, page, `action="/login"`)
}

func TestCloud_AddToggleDelete(t *testing.T) {
	f := setupCloudApp(t)
	f.login(t, "correct horse")

	page := postForm(t, f.ui, "/items", url.Values{"text": {"  Buy milk  "}})
	assert.Contains(t, page, ">Buy milk</span>")

	id := regexp.MustCompile(`/items/(srv-\d+)/toggle`).FindStringSubmatch(page)
	require.NotNil(t, id)

	page = postForm(t, f.ui, "/items/"+id[1]+"/toggle", nil)
	assert.Contains(t, page, "item-done")
	assert.Contains(t, page, "Mark active")

	page = postForm(t, f.ui, "/items/"+id[1]+"/delete", nil)
	assert.NotContains(t, page, "Buy milk")
	assert.Contains(t, page, "No items yet.")
	assert.Empty(t, f.svc.rows)
}

func TestCloud_AddEmptyTextIsSilent(t *testing.T) {
	f := setupCloudApp(t)
	f.login(t, "correct horse")

	page := postForm(t, f.ui, "/items", url.Values{"text": {"   "}})
	assert.Contains(t, page, "No items yet.")
	assert.NotContains(t, page, "status-error")
	assert.Empty(t, f.svc.rows)
}

func TestCloud_ExpiredTokenIsTransparent(t *testing.T) {
	f := setupCloudApp(t)
	f.login(t, "correct horse")

	// The access token dies between commands; the refresh token is fine.
	f.svc.expireAccess()

	page := postForm(t, f.ui, "/items", url.Values{"text": {"still works"}})
	// The caller sees success with no visible error.
	assert.Contains(t, page, "still works")
	assert.NotContains(t, page, "status-error")
}

func TestCloud_DeadSessionReturnsToAuthScreen(t *testing.T) {
	f := setupCloudApp(t)
	f.login(t, "correct horse")
	postForm(t, f.ui, "/items", url.Values{"text": {"secret errand"}})

	f.svc.revokeAll()

	page := postForm(t, f.ui, "/items", url.Values{"text": {"never lands"}})
	assert.Contains(t, page, "Session expired. Please log in again.")
	assert.Contains(t, page, `action="/login"`)
	// No item data is shown and nothing is persisted locally.
	assert.NotContains(t, page, "secret errand")
	assert.Nil(t, f.store.Session())
}

func TestCloud_RestoreAcrossRestart(t *testing.T) {
	f := setupCloudApp(t)
	f.login(t, "correct horse")
	postForm(t, f.ui, "/items", url.Values{"text": {"survives restart"}})

	// A fresh process over the same store: no credential prompt.
	ui2 := f.newUI(t)

	page := getPage(t, ui2, "/")
	assert.Contains(t, page, "a@example.com")
	assert.Contains(t, page, "survives restart")
	assert.NotContains(t, page, `action="/login"`)
}

func TestCloud_RestoreWithRevokedTokens(t *testing.T) {
	f := setupCloudApp(t)
	f.login(t, "correct horse")

	f.svc.revokeAll()

	ui2 := f.newUI(t)
	page := getPage(t, ui2, "/")
	assert.Contains(t, page, `action="/login"`)
	assert.Nil(t, f.store.Session())
}

func TestCloud_Logout(t *testing.T) {
	f := setupCloudApp(t)
	f.login(t, "correct horse")
	postForm(t, f.ui, "/items", url.Values{"text": {"private"}})

	page := postForm(t, f.ui, "/logout", nil)
	assert.Contains(t, page, "Logged out.")
	assert.Contains(t, page, `action="/login"`)
	assert.NotContains(t, page, "private")
	assert.Nil(t, f.store.Session())
}
