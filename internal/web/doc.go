// Package web serves the minilist front end on a localhost address.
//
// Each variant has one App holding the whole application state: the list
// controller, the session manager (cloud only), and the status line. A
// single mutex serializes command dispatch, which is the Go rendition of
// the original single-threaded event loop; there is no finer-grained
// locking and no coordination of overlapping upstream requests beyond it.
//
// Every user action is one POST route mapping to one controller method;
// the GET / handler is a pure projection of current state. Handlers
// follow POST-redirect-GET, and the status line persists in app state
// until the next command replaces it. An individual failed operation
// updates the status line and leaves the list at last-known-good — it
// never takes the app down.
package web
