// Package session manages the one authenticated session the cloud variant
// holds against the hosted auth namespace.
//
// # Lifecycle
//
// The manager moves between four states:
//
//   - Anonymous: no token held, nothing persisted
//   - Authenticating: a login exchange is in flight
//   - Authenticated: a non-empty access token from the latest
//     login or refresh
//   - Refreshing: a refresh-token exchange is in flight
//
// Login, Logout, and Restore settle on Anonymous or Authenticated before
// returning. Refresh reports success as a boolean and leaves the resulting
// state transition to its caller, because the right reaction differs:
// Restore gives up and clears, while the data client propagates the 401.
//
// # Persistence
//
// Every session change is written through to the store immediately. The
// current user is carried inside the session blob and is never stored on
// its own; clearing the session always clears the user with it.
//
// # Token handling
//
// Access tokens are opaque bearer credentials. The manager peeks at the
// exp claim without verification, purely for display and logging; only
// the hosted service validates tokens.
package session
