// ABOUTME: Localhost web front end for the local variant
// ABOUTME: Maps form posts to list controller commands and renders after each

package web

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/2389/minilist/internal/list"
	"github.com/2389/minilist/internal/view"
)

// LocalApp serves the local variant UI. One state object; the mutex
// serializes commands so mutations happen one at a time, matching the
// event-loop model of a single-user front end.
type LocalApp struct {
	mu     sync.Mutex
	ctrl   *list.LocalController
	status string
	isErr  bool
	logger *slog.Logger
}

// NewLocalApp creates the local-variant front end over a controller.
func NewLocalApp(ctrl *list.LocalController) *LocalApp {
	return &LocalApp{
		ctrl:   ctrl,
		logger: slog.Default().With("component", "web"),
	}
}

// Routes returns the local-variant route table.
func (a *LocalApp) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("POST /items", a.handleAdd)
	mux.HandleFunc("POST /items/{id}/edit", a.handleEdit)
	mux.HandleFunc("POST /items/{id}/delete", a.handleDelete)
	mux.HandleFunc("POST /search", a.handleSearch)

	return mux
}

func (a *LocalApp) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	items, err := view.ItemList(a.ctrl.Filtered(), len(a.ctrl.Items()),
		r.URL.Query().Get("edit"), view.Caps{Edit: true})
	if err != nil {
		a.logger.Error("rendering item list failed", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	page, err := view.RenderLocalPage(view.LocalPage{
		Status:      a.status,
		StatusError: a.isErr,
		Query:       a.ctrl.Query(),
		Items:       items,
	})
	if err != nil {
		a.logger.Error("rendering page failed", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

func (a *LocalApp) handleAdd(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.ctrl.Add(r.FormValue("text"))
	a.setStatus("Could not add: ", err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *LocalApp) handleEdit(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.ctrl.Edit(r.PathValue("id"), r.FormValue("text"))
	a.setStatus("Could not edit: ", err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *LocalApp) handleDelete(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.ctrl.Remove(r.PathValue("id"))
	a.setStatus("Could not delete: ", err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *LocalApp) handleSearch(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ctrl.SetQuery(r.FormValue("q"))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// setStatus updates the status line after a command. Validation failures
// are silent: the list simply does not change. Success clears any stale
// message. The app never crashes on an individual failed operation.
func (a *LocalApp) setStatus(prefix string, err error) {
	switch {
	case err == nil, errors.Is(err, list.ErrEmptyText):
		a.status, a.isErr = "", false
	default:
		a.status, a.isErr = prefix+err.Error(), true
		a.logger.Warn("command failed", "error", err)
	}
}
