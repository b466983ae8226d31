// File: api/session.go
// Author: momentics <momentics@gmail.com>
//
// Session pipe contract between the datagram engine and the messaging
// pipeline above it.

package api

// Session is the engine-facing side of a message pipe pair.
//
// PullMsg and PushMsg never block. Pushed messages become visible to the
// downstream reader only after Flush; Reset discards messages pushed
// since the last Flush, which the engine uses to back out a
// half-delivered message pair.
type Session interface {
	// PullMsg returns the next queued outbound part, or ErrPipeEmpty.
	PullMsg() (Msg, error)

	// PushMsg stages one inbound part, or returns ErrPipeFull.
	PushMsg(Msg) error

	// Flush publishes all staged inbound parts to the reader.
	Flush()

	// Reset discards staged inbound parts that were not yet flushed.
	Reset()
}
