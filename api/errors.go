// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error values used across the hioload-udp library.

package api

import "fmt"

// Sentinel errors. The pipe and would-block values are flow-control
// outcomes, not failures: they pause a readiness interest until the
// matching restart call re-arms it.
var (
	ErrPipeEmpty         = fmt.Errorf("session pipe is empty")
	ErrPipeFull          = fmt.Errorf("session pipe is full")
	ErrWouldBlock        = fmt.Errorf("operation would block")
	ErrFrameTooLarge     = fmt.Errorf("frame exceeds datagram capacity")
	ErrMalformedDgram    = fmt.Errorf("malformed datagram")
	ErrInvalidRawAddress = fmt.Errorf("invalid raw address")
	ErrEngineClosed      = fmt.Errorf("engine is closed")
	ErrNotSupported      = fmt.Errorf("operation not supported")
)
