// Package sender orchestrates push notification delivery through Firebase
// Cloud Messaging.
//
// A Sender is a session bound to one service account. The caller fills
// indexed message groups — recipient plus per-platform payloads — through a
// cursor, then either dispatches them all at once with Send or defers them
// with Schedule. Send returns a Report with one Result per message; a
// rejected or unreachable message is a counted failure inside the report,
// never an error from Send itself. Validation problems (no recipient, no
// content, nothing to send) do fail fast, before any network traffic.
//
// Schedule validates the same way, then persists pending audit records and
// hands chunked jobs to a queue. A Runner on the worker side replays each
// chunk through a fresh session and reconciles the audit records by
// correlation id.
package sender
