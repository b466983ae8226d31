// File: internal/session/pipe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded message pipe with staged writes. Push stages a part, Flush
// publishes everything staged to the reader, Reset discards the staged
// tail. Safe for one writer and one reader on different goroutines.

package session

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-udp/api"
)

// Pipe is a bounded single-writer/single-reader message queue.
type Pipe struct {
	mu     sync.Mutex
	ready  *queue.Queue // visible to the reader
	staged *queue.Queue // pushed but not yet flushed
	hwm    int
	signal chan struct{} // fires on flush, capacity 1
}

// NewPipe creates a pipe bounded at hwm messages (ready plus staged).
func NewPipe(hwm int) *Pipe {
	return &Pipe{
		ready:  queue.New(),
		staged: queue.New(),
		hwm:    hwm,
		signal: make(chan struct{}, 1),
	}
}

// Push stages one message. Returns ErrPipeFull at the high-water mark.
func (p *Pipe) Push(m api.Msg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready.Length()+p.staged.Length() >= p.hwm {
		return api.ErrPipeFull
	}
	p.staged.Add(m)
	return nil
}

// Flush publishes staged messages to the reader and signals it.
func (p *Pipe) Flush() {
	p.mu.Lock()
	moved := p.staged.Length() > 0
	for p.staged.Length() > 0 {
		p.ready.Add(p.staged.Remove())
	}
	p.mu.Unlock()

	if moved {
		select {
		case p.signal <- struct{}{}:
		default:
		}
	}
}

// Reset drops all staged messages.
func (p *Pipe) Reset() {
	p.mu.Lock()
	for p.staged.Length() > 0 {
		p.staged.Remove()
	}
	p.mu.Unlock()
}

// Pull removes the next published message. wasFull reports whether the
// pipe sat at its high-water mark before the pull, the condition under
// which a paused engine needs a restart kick.
func (p *Pipe) Pull() (m api.Msg, wasFull bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	wasFull = p.ready.Length()+p.staged.Length() >= p.hwm
	if p.ready.Length() == 0 {
		return api.Msg{}, wasFull, api.ErrPipeEmpty
	}
	return p.ready.Remove().(api.Msg), wasFull, nil
}

// Len reports the number of published messages.
func (p *Pipe) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready.Length()
}

// Signal exposes the flush notification channel for blocking readers.
func (p *Pipe) Signal() <-chan struct{} { return p.signal }
