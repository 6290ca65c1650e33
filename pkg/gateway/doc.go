// Package gateway is a thin HTTP client for the FCM v1 messages:send API.
//
// Send fans out one POST per message concurrently and gathers the replies
// into a slice ordered by message position — correlation is positional, not
// by completion order, so replies[i] always belongs to messages[i] no matter
// which request finished first.
//
// Per-message failures are data, not errors: a non-2xx response carries the
// gateway's decoded error envelope, and a transport-level failure (timeout,
// connection refused) is reported as a reply that was never received, with
// no error detail at all. Send itself never fails; deciding what a failed
// message means is the caller's concern.
//
// Each request runs under its own timeout so one hung connection cannot
// stall the whole batch.
package gateway
