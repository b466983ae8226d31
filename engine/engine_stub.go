// File: engine/engine_stub.go
//go:build !linux
// +build !linux

//
// Author: momentics <momentics@gmail.com>
//
// Stub engine for platforms without a raw-socket reactor backend.

package engine

import (
	"github.com/momentics/hioload-udp/addr"
	"github.com/momentics/hioload-udp/api"
)

// Engine is the stub datagram engine for unsupported platforms.
type Engine struct{}

func New(opts Options) *Engine { return &Engine{} }

func (e *Engine) Init(ep *addr.Endpoint, send, recv bool) error {
	return api.ErrNotSupported
}

func (e *Engine) Plug(p api.Poller, s api.Session) error {
	return api.ErrNotSupported
}

func (e *Engine) Terminate() {}

func (e *Engine) Close() error { return nil }

func (e *Engine) InEvent()  {}
func (e *Engine) OutEvent() {}

func (e *Engine) RestartInput()  {}
func (e *Engine) RestartOutput() {}

func (e *Engine) LocalPort() (uint16, error) {
	return 0, api.ErrNotSupported
}
