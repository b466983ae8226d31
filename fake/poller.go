// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake poller and handle recording interest changes for engine tests.

package fake

import (
	"sync"

	"github.com/momentics/hioload-udp/api"
)

// Poller is a recording implementation of api.Poller. It never delivers
// events on its own; tests invoke the handler directly.
type Poller struct {
	mu      sync.Mutex
	Handles []*Handle
}

// NewPoller creates an empty fake poller.
func NewPoller() *Poller {
	return &Poller{}
}

// Register records the registration and returns a recording handle.
func (p *Poller) Register(fd int, h api.Handler) (api.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	handle := &Handle{FD: fd, Handler: h}
	p.Handles = append(p.Handles, handle)
	return handle, nil
}

// Last returns the most recently registered handle.
func (p *Poller) Last() *Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Handles) == 0 {
		return nil
	}
	return p.Handles[len(p.Handles)-1]
}

// Handle records interest arm/disarm traffic for one registration.
type Handle struct {
	FD      int
	Handler api.Handler

	PollIn  bool
	PollOut bool

	SetInCalls    int
	SetOutCalls   int
	ResetInCalls  int
	ResetOutCalls int
	Unregistered  bool
}

func (h *Handle) SetPollIn() {
	h.PollIn = true
	h.SetInCalls++
}

func (h *Handle) SetPollOut() {
	h.PollOut = true
	h.SetOutCalls++
}

func (h *Handle) ResetPollIn() {
	h.PollIn = false
	h.ResetInCalls++
}

func (h *Handle) ResetPollOut() {
	h.PollOut = false
	h.ResetOutCalls++
}

func (h *Handle) Unregister() error {
	h.Unregistered = true
	return nil
}
