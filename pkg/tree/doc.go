// Package tree provides recursive pruning of sparse payload trees.
//
// The FCM v1 API rejects or misinterprets keys carrying null values or empty
// containers, so every payload assembled by this module is passed through
// Prune before it is serialized. Pruning walks a generic string-keyed tree
// (maps, slices, scalars) depth-first and removes nil values and containers
// that are, or become, empty. Scalars are never touched: an empty string or
// a zero integer is a deliberate value, not an absent one.
//
// Prune is idempotent: Prune(Prune(x)) always equals Prune(x).
package tree
