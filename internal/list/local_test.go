// ABOUTME: Tests for the local list controller
// ABOUTME: Covers add/edit/remove validation, filtering, and write-through

package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/minilist/internal/model"
)

// memStore is an in-memory ItemStore that counts writes.
type memStore struct {
	items []model.Item
	saves int
}

func (s *memStore) Items() []model.Item { return s.items }

func (s *memStore) SaveItems(items []model.Item) error {
	s.items = append([]model.Item(nil), items...)
	s.saves++
	return nil
}

func TestLocalAdd_TrimsAndPrepends(t *testing.T) {
	s := &memStore{}
	c := NewLocalController(s)

	_, err := c.Add("first")
	require.NoError(t, err)

	item, err := c.Add("  Buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", item.Text)
	assert.NotEmpty(t, item.ID)

	// Exactly one longer, new item first.
	require.Len(t, c.Items(), 2)
	assert.Equal(t, "Buy milk", c.Items()[0].Text)
	assert.Equal(t, "first", c.Items()[1].Text)

	// Write-through on every mutation.
	assert.Equal(t, 2, s.saves)
	assert.Equal(t, c.Items(), s.items)
}

func TestLocalAdd_RejectsEmptyText(t *testing.T) {
	s := &memStore{}
	c := NewLocalController(s)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := c.Add(text)
		assert.ErrorIs(t, err, ErrEmptyText)
	}

	// No-op: list unchanged, nothing persisted.
	assert.Empty(t, c.Items())
	assert.Equal(t, 0, s.saves)
}

func TestLocalEdit(t *testing.T) {
	s := &memStore{}
	c := NewLocalController(s)

	item, err := c.Add("tpyo")
	require.NoError(t, err)

	require.NoError(t, c.Edit(item.ID, "  typo fixed  "))
	assert.Equal(t, "typo fixed", c.Items()[0].Text)
	assert.Equal(t, item.ID, c.Items()[0].ID)

	assert.ErrorIs(t, c.Edit(item.ID, "   "), ErrEmptyText)
	assert.ErrorIs(t, c.Edit("no-such-id", "text"), ErrNotFound)
}

func TestLocalRemove(t *testing.T) {
	s := &memStore{}
	c := NewLocalController(s)

	a, _ := c.Add("a")
	b, _ := c.Add("b")

	require.NoError(t, c.Remove(a.ID))
	require.Len(t, c.Items(), 1)
	assert.Equal(t, b.ID, c.Items()[0].ID)
	assert.Equal(t, c.Items(), s.items)

	assert.ErrorIs(t, c.Remove(a.ID), ErrNotFound)
}

func TestLocalController_LoadsPersistedSnapshot(t *testing.T) {
	s := &memStore{items: []model.Item{{ID: "1", Text: "carried over"}}}
	c := NewLocalController(s)

	require.Len(t, c.Items(), 1)
	assert.Equal(t, "carried over", c.Items()[0].Text)
}

func TestFiltered_IsPure(t *testing.T) {
	s := &memStore{}
	c := NewLocalController(s)

	c.Add("Buy milk")
	c.Add("Walk the dog")
	c.Add("buy stamps")

	before := append([]model.Item(nil), c.Items()...)

	c.SetQuery("BUY")
	got := c.Filtered()
	require.Len(t, got, 2)
	assert.Equal(t, "buy stamps", got[0].Text)
	assert.Equal(t, "Buy milk", got[1].Text)

	// The stored list is untouched, in stored order, and nothing was
	// persisted by the query change.
	assert.Equal(t, before, c.Items())
	assert.Equal(t, 3, s.saves)

	c.SetQuery("")
	assert.Equal(t, before, c.Filtered())

	c.SetQuery("no such thing")
	assert.Empty(t, c.Filtered())
}

func TestSetQuery_TrimsAndLowercases(t *testing.T) {
	c := NewLocalController(&memStore{})

	c.SetQuery("  MiLk  ")
	assert.Equal(t, "milk", c.Query())
}
