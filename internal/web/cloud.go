// ABOUTME: Localhost web front end for the cloud variant
// ABOUTME: Dispatches auth and item commands; session death returns to the auth screen

package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/2389/minilist/internal/list"
	"github.com/2389/minilist/internal/remote"
	"github.com/2389/minilist/internal/session"
	"github.com/2389/minilist/internal/view"
)

// CloudApp serves the cloud variant UI. Commands are serialized by the
// mutex; each one settles before the next mutates shared state. Responses
// from the hosted service landing around a user action are last-write-wins
// — the inconsistency window is accepted, not locked away.
type CloudApp struct {
	mu       sync.Mutex
	sessions *session.Manager
	ctrl     *list.RemoteController
	status   string
	isErr    bool
	logger   *slog.Logger
}

// NewCloudApp creates the cloud-variant front end.
func NewCloudApp(sessions *session.Manager, ctrl *list.RemoteController) *CloudApp {
	return &CloudApp{
		sessions: sessions,
		ctrl:     ctrl,
		logger:   slog.Default().With("component", "web"),
	}
}

// Restore rebuilds the session from the persisted blob and, when that
// succeeds, loads the item list. Called once before serving.
func (a *CloudApp) Restore(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sessions.Restore(ctx)
	if a.sessions.CurrentUser() == nil {
		return
	}

	if err := a.ctrl.Load(ctx); err != nil {
		a.fail("Could not load items: ", err)
	}
}

// Routes returns the cloud-variant route table.
func (a *CloudApp) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.HandleFunc("POST /signup", a.handleSignup)
	mux.HandleFunc("POST /logout", a.handleLogout)
	mux.HandleFunc("POST /items", a.handleAdd)
	mux.HandleFunc("POST /items/{id}/toggle", a.handleToggle)
	mux.HandleFunc("POST /items/{id}/delete", a.handleDelete)
	mux.HandleFunc("POST /search", a.handleSearch)

	return mux
}

func (a *CloudApp) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	page := view.CloudPage{
		Status:      a.status,
		StatusError: a.isErr,
	}

	if user := a.sessions.CurrentUser(); user != nil {
		items, err := view.ItemList(a.ctrl.Filtered(), len(a.ctrl.Items()), "",
			view.Caps{Toggle: true})
		if err != nil {
			a.logger.Error("rendering item list failed", "error", err)
			http.Error(w, "render error", http.StatusInternalServerError)
			return
		}
		page.Authenticated = true
		page.UserEmail = user.Email
		page.Query = a.ctrl.Query()
		page.Items = items
	}

	rendered, err := view.RenderCloudPage(page)
	if err != nil {
		a.logger.Error("rendering page failed", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(rendered))
}

func (a *CloudApp) handleLogin(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.sessions.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		a.fail("Could not log in: ", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.ok("Logged in.")
	if err := a.ctrl.Load(r.Context()); err != nil {
		a.fail("Could not load items: ", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *CloudApp) handleSignup(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	msg, err := a.sessions.Signup(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		a.fail("Could not sign up: ", err)
	} else {
		a.ok(msg)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *CloudApp) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sessions.Logout(r.Context())
	a.ctrl.Reset()
	a.ctrl.SetQuery("")
	a.ok("Logged out.")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *CloudApp) handleAdd(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.ctrl.Add(r.Context(), r.FormValue("text"))
	a.finish(r.Context(), "Could not add: ", err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *CloudApp) handleToggle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.ctrl.Toggle(r.Context(), r.PathValue("id"))
	a.finish(r.Context(), "Could not update: ", err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *CloudApp) handleDelete(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.ctrl.Remove(r.Context(), r.PathValue("id"))
	a.finish(r.Context(), "Could not delete: ", err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *CloudApp) handleSearch(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ctrl.SetQuery(r.FormValue("q"))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// finish settles the status line after an item command. Validation
// failures and missing-session no-ops are silent. A 401 that survived the
// refresh-retry means the session is dead: clear it and return the user
// to the auth screen with a generic message rather than showing stale
// item data.
func (a *CloudApp) finish(ctx context.Context, prefix string, err error) {
	switch {
	case err == nil, errors.Is(err, list.ErrEmptyText), errors.Is(err, list.ErrNoSession):
		a.ok("")
		return
	}

	var apiErr *remote.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		a.sessions.Logout(ctx)
		a.ctrl.Reset()
		a.status, a.isErr = "Session expired. Please log in again.", true
		a.logger.Info("session expired during command")
		return
	}

	a.fail(prefix, err)
}

func (a *CloudApp) ok(msg string) {
	a.status, a.isErr = msg, false
}

func (a *CloudApp) fail(prefix string, err error) {
	a.status, a.isErr = prefix+err.Error(), true
	a.logger.Warn("command failed", "error", err)
}
