// File: engine/options.go
// Author: momentics <momentics@gmail.com>

package engine

// MaxDgramSize is the fixed capacity of the engine's per-direction
// datagram buffers. Framing never writes past this bound.
const MaxDgramSize = 8192

// Options is the immutable per-engine configuration, consumed at
// construction.
type Options struct {
	// RawSocket bypasses group/body framing: the group part of each
	// outbound pair carries the destination as "host:port" text and the
	// datagram payload is exactly the body part.
	RawSocket bool

	// BoundDevice optionally binds the socket to a network device.
	BoundDevice string

	// MulticastLoop controls whether multicast sends loop back to the
	// local host.
	MulticastLoop bool
}
