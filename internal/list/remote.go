// ABOUTME: List controller for the cloud variant
// ABOUTME: Confirm-then-apply against the remote data client, gated on a session

package list

import (
	"context"
	"slices"
	"strings"

	"github.com/2389/minilist/internal/model"
)

// ItemClient is the slice of the remote data client the controller drives.
type ItemClient interface {
	List(ctx context.Context) ([]model.Item, error)
	Insert(ctx context.Context, text, userID string) (*model.Item, error)
	SetDone(ctx context.Context, id string, done bool) error
	Delete(ctx context.Context, id string) error
}

// UserSource reports the currently authenticated user, nil when anonymous.
type UserSource interface {
	CurrentUser() *model.User
}

// RemoteController owns the item list of the cloud variant. Every mutation
// is confirm-then-apply: the in-memory list changes only after the remote
// call succeeded, so a failed operation leaves the UI at last-known-good.
// All operations are no-ops without an authenticated session.
type RemoteController struct {
	items
	client ItemClient
	user   UserSource
}

// NewRemoteController creates a controller with an empty list; call Load
// once a session exists.
func NewRemoteController(client ItemClient, user UserSource) *RemoteController {
	return &RemoteController{
		items:  items{list: []model.Item{}},
		client: client,
		user:   user,
	}
}

// Load replaces the in-memory list with the backing query's result, which
// arrives sorted by creation time, newest first. On failure the list is
// cleared rather than left stale.
func (c *RemoteController) Load(ctx context.Context) error {
	if c.user.CurrentUser() == nil {
		return ErrNoSession
	}

	items, err := c.client.List(ctx)
	if err != nil {
		c.list = []model.Item{}
		return err
	}

	c.list = items
	return nil
}

// Add inserts an item server-side and prepends the returned row, which
// carries the server-generated id and creation time.
func (c *RemoteController) Add(ctx context.Context, text string) (model.Item, error) {
	user := c.user.CurrentUser()
	if user == nil {
		return model.Item{}, ErrNoSession
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return model.Item{}, ErrEmptyText
	}

	row, err := c.client.Insert(ctx, text, user.ID)
	if err != nil {
		return model.Item{}, err
	}

	c.list = append([]model.Item{*row}, c.list...)
	return *row, nil
}

// Toggle flips the done flag of one item. The partial update travels
// first; the local flip mirrors it only after the service confirmed.
func (c *RemoteController) Toggle(ctx context.Context, id string) error {
	if c.user.CurrentUser() == nil {
		return ErrNoSession
	}

	i := c.find(id)
	if i < 0 {
		return ErrNotFound
	}

	if err := c.client.SetDone(ctx, id, !c.list[i].Done); err != nil {
		return err
	}

	c.list[i].Done = !c.list[i].Done
	return nil
}

// Remove deletes an item remotely and drops it from memory only after
// confirmation.
func (c *RemoteController) Remove(ctx context.Context, id string) error {
	if c.user.CurrentUser() == nil {
		return ErrNoSession
	}

	i := c.find(id)
	if i < 0 {
		return ErrNotFound
	}

	if err := c.client.Delete(ctx, id); err != nil {
		return err
	}

	c.list = slices.Delete(c.list, i, i+1)
	return nil
}

// Reset clears the in-memory list, used when the session ends. The remote
// rows are untouched; they belong to the account, not the client.
func (c *RemoteController) Reset() {
	c.list = []model.Item{}
}
