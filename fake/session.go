// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake session with a scripted pull queue and capacity-limited pushes.

package fake

import (
	"sync"

	"github.com/momentics/hioload-udp/api"
)

// Session is a recording implementation of api.Session.
type Session struct {
	mu sync.Mutex

	// PullQueue is consumed front to back by PullMsg.
	PullQueue []api.Msg

	// PushCap limits how many parts PushMsg accepts in total;
	// negative means unlimited.
	PushCap int

	Pushed         []api.Msg
	FlushCalls     int
	ResetCalls     int
	PullAfterEmpty int
}

// NewSession creates a fake session with unlimited push capacity.
func NewSession() *Session {
	return &Session{PushCap: -1}
}

// Queue appends a group/body pair to the scripted pull queue.
func (s *Session) Queue(group, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PullQueue = append(s.PullQueue, api.GroupMsg(group), api.BodyMsg(body))
}

func (s *Session) PullMsg() (api.Msg, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.PullQueue) == 0 {
		s.PullAfterEmpty++
		return api.Msg{}, api.ErrPipeEmpty
	}
	m := s.PullQueue[0]
	s.PullQueue = s.PullQueue[1:]
	return m, nil
}

func (s *Session) PushMsg(m api.Msg) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PushCap >= 0 && len(s.Pushed) >= s.PushCap {
		return api.ErrPipeFull
	}
	// Copy: the engine may reuse its receive buffer.
	data := make([]byte, len(m.Data))
	copy(data, m.Data)
	s.Pushed = append(s.Pushed, api.Msg{Data: data, More: m.More})
	return nil
}

func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FlushCalls++
}

func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ResetCalls++
}

// PushedParts returns a snapshot of everything pushed so far.
func (s *Session) PushedParts() []api.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Msg, len(s.Pushed))
	copy(out, s.Pushed)
	return out
}
