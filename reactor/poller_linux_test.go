// File: reactor/poller_linux_test.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>

package reactor

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

type recordingHandler struct {
	in  chan struct{}
	out chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		in:  make(chan struct{}, 16),
		out: make(chan struct{}, 16),
	}
}

// Non-blocking sends: a level-triggered armed socket fires on every poll
// cycle and must not wedge the dispatch loop behind a full channel.
func (h *recordingHandler) InEvent() {
	select {
	case h.in <- struct{}{}:
	default:
	}
}

func (h *recordingHandler) OutEvent() {
	select {
	case h.out <- struct{}{}:
	default:
	}
}

func dgramSocket(t *testing.T) int {
	t.Helper()
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_NONBLOCK, unix.IPPROTO_UDP)
	if err != nil {
		t.Fatalf("socket: %v", err)
	}
	return fd
}

// TestPollOutFires — an idle UDP socket with write interest armed gets an
// OutEvent immediately; disarmed interest delivers nothing.
func TestPollOutFires(t *testing.T) {
	p, err := NewPoller()
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}
	defer p.Close()

	fd := dgramSocket(t)
	defer unix.Close(fd)

	h := newRecordingHandler()
	handle, err := p.Register(fd, h)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	handle.SetPollOut()

	done := make(chan struct{})
	go func() { _ = p.Run(); close(done) }()

	select {
	case <-h.out:
	case <-time.After(2 * time.Second):
		t.Fatal("no OutEvent delivered for writable socket")
	}

	p.Submit(func() { handle.ResetPollOut() })
	// Drain events raced in before the disarm took effect.
	deadline := time.After(200 * time.Millisecond)
drain:
	for {
		select {
		case <-h.out:
		case <-deadline:
			break drain
		}
	}
	select {
	case <-h.out:
		t.Error("OutEvent delivered after ResetPollOut")
	case <-time.After(200 * time.Millisecond):
	}

	p.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after Close")
	}
}

// TestSubmitRunsInDispatchContext — submitted functions execute on the
// dispatch goroutine.
func TestSubmitRunsInDispatchContext(t *testing.T) {
	p, err := NewPoller()
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}
	defer p.Close()

	done := make(chan struct{})
	go func() { _ = p.Run(); close(done) }()

	ran := make(chan struct{})
	p.Submit(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("submitted function did not run")
	}

	p.Close()
	<-done
}

// TestUnregisterStopsCallbacks — after Unregister no callbacks arrive
// even with interest armed.
func TestUnregisterStopsCallbacks(t *testing.T) {
	p, err := NewPoller()
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}
	defer p.Close()

	fd := dgramSocket(t)
	defer unix.Close(fd)

	h := newRecordingHandler()
	handle, err := p.Register(fd, h)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	done := make(chan struct{})
	go func() { _ = p.Run(); close(done) }()

	p.Submit(func() {
		handle.SetPollOut()
		if err := handle.Unregister(); err != nil {
			t.Errorf("Unregister: %v", err)
		}
	})

	select {
	case <-h.out:
		t.Error("OutEvent delivered after Unregister")
	case <-time.After(300 * time.Millisecond):
	}

	p.Close()
	<-done
}
