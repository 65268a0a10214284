// ABOUTME: Store interface and snapshot keys for minilist persistence
// ABOUTME: Defines the write-through snapshot contract both variants rely on

package store

import (
	"errors"

	"github.com/2389/minilist/internal/model"
)

// ErrNotFound is returned when a requested snapshot does not exist
var ErrNotFound = errors.New("not found")

// Snapshot keys. One fixed key per durable blob.
const (
	itemsKey   = "items"
	sessionKey = "session"
)

// Store is the persisted snapshot adapter. Every mutation in the list
// controller and session manager is written through immediately; a load
// always returns the full last-written snapshot.
type Store interface {
	// Items returns the persisted item list. A missing or malformed
	// snapshot yields an empty list, never an error: the durable mirror
	// must not be able to fail the caller on load.
	Items() []model.Item

	// SaveItems overwrites the full item snapshot.
	SaveItems(items []model.Item) error

	// Session returns the persisted session, or nil when no usable
	// session is stored. A session missing either token counts as absent.
	Session() *model.Session

	// SaveSession overwrites the session snapshot.
	SaveSession(s *model.Session) error

	// ClearSession removes the session snapshot. Clearing an absent
	// session is not an error.
	ClearSession() error

	Close() error
}
