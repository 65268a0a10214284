// Package remote is the data-namespace client for the hosted service.
//
// Every request carries the project API key; authenticated requests add
// the session bearer token supplied by a TokenSource. When an
// authenticated request comes back 401, the client asks the token source
// for one refresh and replays the request once with the new token — the
// budget is exactly one replay per logical call, held in an explicit
// RetryPolicy so it is testable on its own. Concurrent 401s are not
// coordinated; each call runs its own refresh.
//
// Failures are values: a non-2xx response becomes an *APIError carrying
// the status and the message the service embedded in the body (msg, then
// error_description, then error, else "HTTP error <status>"). A 204
// response is success with a nil payload.
package remote
