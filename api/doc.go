// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package api defines the contracts shared by all hioload-udp components:
// the two-part datagram message value, the session pipe interface the
// engine pushes to and pulls from, the poller interface that delivers
// readiness events, and the sentinel errors used across the library.
package api
