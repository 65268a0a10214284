// ABOUTME: Typed item operations over the data namespace
// ABOUTME: Speaks the PostgREST query syntax the hosted service exposes

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/2389/minilist/internal/model"
)

// itemColumns is the projection every list query asks for.
const itemColumns = "id,text,done,created_at"

// List fetches all items visible to the current session, newest first.
// Ordering is imposed by the backing query, not by the client.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	path := "/items?select=" + itemColumns + "&order=created_at.desc"

	payload, err := c.Do(ctx, http.MethodGet, path, nil, true, nil)
	if err != nil {
		return nil, err
	}

	var items []model.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decoding item list: %w", err)
	}
	return items, nil
}

// Insert creates an item owned by userID and returns the server row,
// including the generated id and creation time. The service is asked for a
// representation of the created row; it may answer with the row itself or
// a single-element array, both are accepted.
func (c *Client) Insert(ctx context.Context, text, userID string) (*model.Item, error) {
	body, err := json.Marshal(map[string]any{
		"text":    text,
		"done":    false,
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding item: %w", err)
	}

	headers := http.Header{}
	headers.Set("Prefer", "return=representation")

	payload, err := c.Do(ctx, http.MethodPost, "/items", body, true, headers)
	if err != nil {
		return nil, err
	}

	var rows []model.Item
	if err := json.Unmarshal(payload, &rows); err == nil {
		if len(rows) == 0 {
			return nil, fmt.Errorf("service returned no created row")
		}
		return &rows[0], nil
	}

	var row model.Item
	if err := json.Unmarshal(payload, &row); err != nil {
		return nil, fmt.Errorf("decoding created row: %w", err)
	}
	return &row, nil
}

// SetDone updates the done flag of one item. This is a partial update: no
// other column is touched.
func (c *Client) SetDone(ctx context.Context, id string, done bool) error {
	body, err := json.Marshal(map[string]bool{"done": done})
	if err != nil {
		return fmt.Errorf("encoding update: %w", err)
	}

	_, err = c.Do(ctx, http.MethodPatch, "/items?id=eq."+url.QueryEscape(id), body, true, nil)
	return err
}

// Delete removes one item by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/items?id=eq."+url.QueryEscape(id), nil, true, nil)
	return err
}
