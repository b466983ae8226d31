// File: reactor/poller_stub.go
//go:build !linux
// +build !linux

//
// Author: momentics <momentics@gmail.com>
//
// Stub poller for platforms without an epoll implementation.

package reactor

import (
	"github.com/momentics/hioload-udp/api"
)

// Poller is the stub reactor for unsupported platforms.
type Poller struct{}

// NewPoller reports the platform as unsupported.
func NewPoller() (*Poller, error) {
	return nil, api.ErrNotSupported
}

func (p *Poller) Register(fd int, h api.Handler) (api.Handle, error) {
	return nil, api.ErrNotSupported
}

func (p *Poller) Submit(fn func()) {}

func (p *Poller) Run() error { return api.ErrNotSupported }

func (p *Poller) Close() error { return nil }
