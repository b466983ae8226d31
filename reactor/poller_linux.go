// File: reactor/poller_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux epoll(7)-based poller. Level-triggered: an armed interest keeps
// firing while the condition holds, which is what drives the engine's
// one-message-per-callback send loop.

package reactor

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-udp/api"
)

// Poller is the Linux epoll implementation of api.Poller plus the
// dispatch loop and a Submit queue for work that must run in dispatch
// context.
type Poller struct {
	epfd   int
	wakeFd int
	closed atomic.Bool

	mu      sync.Mutex
	handles map[int]*pollHandle
	cmds    []func()
}

// pollHandle tracks one registered descriptor and its interest mask.
// The mask is mutated only from dispatch context (or before Run starts),
// so it needs no locking of its own.
type pollHandle struct {
	p      *Poller
	fd     int
	h      api.Handler
	events uint32
	dead   bool
}

var _ api.Poller = (*Poller)(nil)
var _ api.Handle = (*pollHandle)(nil)

// NewPoller creates an epoll instance with an eventfd wakeup channel.
func NewPoller() (*Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakeFd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakeFd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeFd, &ev); err != nil {
		unix.Close(wakeFd)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wakefd: %w", err)
	}
	return &Poller{
		epfd:    epfd,
		wakeFd:  wakeFd,
		handles: make(map[int]*pollHandle),
	}, nil
}

// Register adds a descriptor with all interest disarmed.
func (p *Poller) Register(fd int, h api.Handler) (api.Handle, error) {
	ev := unix.EpollEvent{Events: 0, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return nil, fmt.Errorf("epoll ctl add: %w", err)
	}
	ph := &pollHandle{p: p, fd: fd, h: h}
	p.mu.Lock()
	p.handles[fd] = ph
	p.mu.Unlock()
	return ph, nil
}

// Submit queues fn to run on the dispatch goroutine and wakes the loop.
func (p *Poller) Submit(fn func()) {
	p.mu.Lock()
	p.cmds = append(p.cmds, fn)
	p.mu.Unlock()
	var one = [8]byte{0: 1}
	_, _ = unix.Write(p.wakeFd, one[:])
}

// Run dispatches readiness events until Close. It is the only goroutine
// that may invoke handler callbacks, arm or disarm interest, or
// unregister handles once started.
func (p *Poller) Run() error {
	events := make([]unix.EpollEvent, 128)
	for {
		n, err := unix.EpollWait(p.epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if p.closed.Load() {
				return nil
			}
			return fmt.Errorf("epoll wait: %w", err)
		}
		for i := 0; i < n; i++ {
			ev := events[i]
			if int(ev.Fd) == p.wakeFd {
				p.drainWake()
				p.runCommands()
				continue
			}
			p.mu.Lock()
			ph := p.handles[int(ev.Fd)]
			p.mu.Unlock()
			if ph == nil {
				continue
			}
			dispatch(ph, ev.Events)
		}
		if p.closed.Load() {
			return nil
		}
	}
}

// dispatch delivers in/out callbacks, re-checking liveness between them:
// an InEvent may terminate the engine and unregister the handle.
func dispatch(ph *pollHandle, got uint32) {
	defer func() { _ = recover() }()
	if ph.dead {
		return
	}
	if got&(unix.EPOLLIN|unix.EPOLLERR|unix.EPOLLHUP) != 0 && ph.events&unix.EPOLLIN != 0 {
		ph.h.InEvent()
	}
	if ph.dead {
		return
	}
	if got&unix.EPOLLOUT != 0 && ph.events&unix.EPOLLOUT != 0 {
		ph.h.OutEvent()
	}
}

// Close stops the dispatch loop and releases the poller descriptors.
func (p *Poller) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	var one = [8]byte{0: 1}
	_, _ = unix.Write(p.wakeFd, one[:])
	unix.Close(p.wakeFd)
	return unix.Close(p.epfd)
}

func (p *Poller) drainWake() {
	var buf [8]byte
	for {
		if _, err := unix.Read(p.wakeFd, buf[:]); err != nil {
			return
		}
	}
}

func (p *Poller) runCommands() {
	p.mu.Lock()
	cmds := p.cmds
	p.cmds = nil
	p.mu.Unlock()
	for _, fn := range cmds {
		func() {
			defer func() { _ = recover() }()
			fn()
		}()
	}
}

// mod reapplies the interest mask for a handle.
func (ph *pollHandle) mod() {
	ev := unix.EpollEvent{Events: ph.events, Fd: int32(ph.fd)}
	_ = unix.EpollCtl(ph.p.epfd, unix.EPOLL_CTL_MOD, ph.fd, &ev)
}

func (ph *pollHandle) SetPollIn() {
	if ph.dead {
		return
	}
	ph.events |= unix.EPOLLIN
	ph.mod()
}

func (ph *pollHandle) SetPollOut() {
	if ph.dead {
		return
	}
	ph.events |= unix.EPOLLOUT
	ph.mod()
}

func (ph *pollHandle) ResetPollIn() {
	if ph.dead {
		return
	}
	ph.events &^= unix.EPOLLIN
	ph.mod()
}

func (ph *pollHandle) ResetPollOut() {
	if ph.dead {
		return
	}
	ph.events &^= unix.EPOLLOUT
	ph.mod()
}

// Unregister removes the descriptor. Synchronous: no callbacks are
// delivered for this handle after it returns.
func (ph *pollHandle) Unregister() error {
	if ph.dead {
		return nil
	}
	ph.dead = true
	ph.p.mu.Lock()
	delete(ph.p.handles, ph.fd)
	ph.p.mu.Unlock()
	if err := unix.EpollCtl(ph.p.epfd, unix.EPOLL_CTL_DEL, ph.fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}
