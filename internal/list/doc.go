// Package list holds the in-memory item collection each variant's
// controller exclusively owns.
//
// The local controller generates ids client-side and writes every
// mutation through to the snapshot store immediately. The remote
// controller is confirm-then-apply: the hosted service is asked first and
// memory mirrors the change only on success, so any transport failure
// leaves the visible list at last-known-good.
//
// Filtering is a render-time projection. SetQuery never touches the
// stored items, and an empty query yields the full list in stored order.
package list
