// ABOUTME: List controller for the local variant
// ABOUTME: Client-generated ids, in-place edit, write-through to the snapshot store

package list

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/2389/minilist/internal/model"
)

// ItemStore is the slice of the store the local controller writes through.
type ItemStore interface {
	Items() []model.Item
	SaveItems(items []model.Item) error
}

// LocalController owns the item list of the local variant. Every mutation
// is applied in memory first and then written through to the store before
// the next command is accepted.
type LocalController struct {
	items
	store ItemStore
}

// NewLocalController loads the persisted snapshot and takes ownership of it.
func NewLocalController(store ItemStore) *LocalController {
	return &LocalController{
		items: items{list: store.Items()},
		store: store,
	}
}

// Add creates an item from trimmed text and prepends it, so the newest
// item renders first. Empty or whitespace-only text is rejected without
// touching the list or the store.
func (c *LocalController) Add(text string) (model.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Item{}, ErrEmptyText
	}

	item := model.Item{
		ID:   uuid.New().String(),
		Text: text,
	}
	c.list = append([]model.Item{item}, c.list...)

	if err := c.save(); err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// Edit replaces the text of an item in place.
func (c *LocalController) Edit(id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	i := c.find(id)
	if i < 0 {
		return ErrNotFound
	}

	c.list[i].Text = text
	return c.save()
}

// Remove deletes an item and persists immediately.
func (c *LocalController) Remove(id string) error {
	i := c.find(id)
	if i < 0 {
		return ErrNotFound
	}

	c.list = slices.Delete(c.list, i, i+1)
	return c.save()
}

func (c *LocalController) save() error {
	if err := c.store.SaveItems(c.list); err != nil {
		return fmt.Errorf("persisting items: %w", err)
	}
	return nil
}
