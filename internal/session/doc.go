// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package session implements the message pipe pair between the datagram
// engine and the application: bounded FIFOs with staged visibility, so a
// half-pushed message pair is never observable by the reader.
package session
