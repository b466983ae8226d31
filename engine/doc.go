// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package engine implements the non-blocking UDP datagram engine: it
// owns the socket and its poller registration, frames message pairs into
// datagrams and back, joins multicast groups, and bridges flow control
// between the socket and the session pipes.
//
// The engine is driven entirely by poller callbacks on a single dispatch
// goroutine; no method blocks and none may be called concurrently.
package engine
