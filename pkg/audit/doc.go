// Package audit persists one durable record per dispatched message.
//
// Records are created in two moods: a completed record written right after a
// synchronous send (sent_at or failed_at set), or a pending record written at
// scheduling time (only scheduled_at set) and reconciled later by the worker
// that eventually dispatched it. Reconciliation matches on the correlation id
// assigned at submission time and is an upsert: a record whose id never shows
// up in a result set stays pending, visible to monitoring as stuck.
//
// The Store interface has three implementations: an in-memory store for
// tests and log-less setups, a PostgreSQL store on pgx, and a MongoDB store.
// Bulk writes are chunked to bound statement size.
package audit
