// Package queue defers units of work to a later time.
//
// The Enqueuer interface is the seam between scheduling and execution: the
// caller hands over a JSON-marshalable payload and a delay, and some worker
// runtime eventually feeds the payload to a Handler. The in-process Memory
// implementation runs handlers on timers inside the same process; swapping
// in a durable queue is a matter of implementing Enqueue against a broker
// and pointing its consumer at the same Handler.
//
// Payloads are serialized at enqueue time, so a payload that cannot be
// marshaled fails synchronously rather than inside a worker.
package queue
