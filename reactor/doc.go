// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package reactor provides the poll-mode event reactor driving the
// datagram engine: a single dispatch goroutine multiplexing readiness
// events with per-handle read/write interest, implemented with epoll on
// Linux.
package reactor
