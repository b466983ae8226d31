// File: internal/session/session.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Session object owning the inbound and outbound pipes. The engine side
// implements api.Session; the application side stages and flushes whole
// message pairs so the engine never observes half a pair.

package session

import (
	"github.com/google/uuid"

	"github.com/momentics/hioload-udp/api"
)

// Session owns one pipe per direction: out carries application messages
// to the engine, in carries decoded datagrams back.
type Session struct {
	id  string
	in  *Pipe
	out *Pipe
}

var _ api.Session = (*Session)(nil)

// New creates a session whose pipes hold up to hwm message parts each.
func New(hwm int) *Session {
	if hwm < 2 {
		hwm = 2
	}
	return &Session{
		id:  uuid.NewString(),
		in:  NewPipe(hwm),
		out: NewPipe(hwm),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// PullMsg implements the engine-facing pull from the outbound pipe.
func (s *Session) PullMsg() (api.Msg, error) {
	m, _, err := s.out.Pull()
	return m, err
}

// PushMsg stages one decoded part on the inbound pipe.
func (s *Session) PushMsg(m api.Msg) error {
	return s.in.Push(m)
}

// Flush publishes staged inbound parts to the application reader.
func (s *Session) Flush() {
	s.in.Flush()
}

// Reset discards staged inbound parts after a half-delivered pair.
func (s *Session) Reset() {
	s.in.Reset()
}

// Send stages a group/body pair on the outbound pipe and publishes it
// atomically. Nothing is published if either part hits the high-water
// mark.
func (s *Session) Send(group, body []byte) error {
	if err := s.out.Push(api.GroupMsg(group)); err != nil {
		return err
	}
	if err := s.out.Push(api.BodyMsg(body)); err != nil {
		s.out.Reset()
		return err
	}
	s.out.Flush()
	return nil
}

// Recv pulls one published group/body pair from the inbound pipe.
// wasFull reports whether the pipe sat at capacity before the pull.
// Returns ErrPipeEmpty when no pair is available.
func (s *Session) Recv() (group, body api.Msg, wasFull bool, err error) {
	group, wasFull, err = s.in.Pull()
	if err != nil {
		return api.Msg{}, api.Msg{}, wasFull, err
	}
	// Pairs are flushed atomically, so the body part must be present.
	body, _, err = s.in.Pull()
	if err != nil {
		panic("session: message pair truncated in inbound pipe")
	}
	return group, body, wasFull, nil
}

// InSignal exposes the inbound flush notification for blocking readers.
func (s *Session) InSignal() <-chan struct{} { return s.in.Signal() }

// OutLen reports how many outbound parts await the engine.
func (s *Session) OutLen() int { return s.out.Len() }
