// ABOUTME: Shared list controller state: the in-memory collection and query
// ABOUTME: Filtering is render-time only and never mutates the stored items

package list

import (
	"errors"
	"strings"

	"github.com/2389/minilist/internal/model"
)

// Validation and lookup errors. Empty text is rejected silently by the UI
// layer: no request is issued and no status line is shown.
var (
	ErrEmptyText = errors.New("item text is empty")
	ErrNotFound  = errors.New("item not found")
	ErrNoSession = errors.New("no authenticated session")
)

// items is the collection both controllers embed. The controller owning it
// is the only writer; the store or remote service is the durable mirror.
type items struct {
	list  []model.Item
	query string
}

// Items returns the full in-memory list in stored order.
func (c *items) Items() []model.Item {
	return c.list
}

// SetQuery stores the filter substring. Filtering applies at render time
// only; the stored list is untouched.
func (c *items) SetQuery(q string) {
	c.query = strings.ToLower(strings.TrimSpace(q))
}

// Query returns the active filter substring.
func (c *items) Query() string {
	return c.query
}

// Filtered returns the items whose text contains the query,
// case-insensitively. An empty query returns the full list in stored
// order.
func (c *items) Filtered() []model.Item {
	if c.query == "" {
		return c.list
	}

	var out []model.Item
	for _, item := range c.list {
		if strings.Contains(strings.ToLower(item.Text), c.query) {
			out = append(out, item)
		}
	}
	return out
}

// find returns the index of an item by id, or -1.
func (c *items) find(id string) int {
	for i, item := range c.list {
		if item.ID == id {
			return i
		}
	}
	return -1
}
