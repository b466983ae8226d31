// File: api/poll.go
// Author: momentics <momentics@gmail.com>
//
// Poll-mode reactor abstraction: descriptor registration and per-handle
// readiness interest.

package api

// Handler receives readiness callbacks from the poller. Callbacks run on
// the poller's single dispatch goroutine and must not block.
type Handler interface {
	// InEvent is invoked when the descriptor is readable.
	InEvent()

	// OutEvent is invoked when the descriptor is writable.
	OutEvent()
}

// Handle represents one registered descriptor. Interest starts fully
// disarmed; the owner arms exactly what it wants to be woken for.
//
// All methods must be called from the poller's dispatch goroutine, except
// before the poller has started running.
type Handle interface {
	SetPollIn()
	SetPollOut()
	ResetPollIn()
	ResetPollOut()

	// Unregister removes the descriptor from the poller. It is
	// synchronous: once it returns, no further callbacks are delivered
	// for this handle.
	Unregister() error
}

// Poller multiplexes readiness events for registered descriptors onto a
// single dispatch goroutine.
type Poller interface {
	// Register adds a descriptor with its handler and returns the
	// interest handle. No interest is armed yet.
	Register(fd int, h Handler) (Handle, error)
}
