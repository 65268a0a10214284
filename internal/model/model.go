// ABOUTME: Data types shared across the minilist variants
// ABOUTME: JSON tags match the hosted service wire format

package model

import "time"

// Item is a single to-do entry. The local variant only uses ID and Text;
// Done and CreatedAt are owned by the hosted service in the cloud variant.
type Item struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// User is the authenticated account record returned by the auth namespace.
// The client treats it as read-only and only ever looks at ID and Email.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds the token pair and user for an authenticated session.
// At most one session is live per client; it is persisted write-through
// on every change.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}
