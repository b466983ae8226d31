// File: endpoint/endpoint_linux_test.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>

package endpoint

import (
	"fmt"
	"testing"
	"time"

	"github.com/momentics/hioload-udp/api"
)

// openRecv opens a receive-only endpoint on an ephemeral loopback port.
func openRecv(t *testing.T, raw bool) (*Endpoint, int) {
	t.Helper()
	ep, err := Open(&Config{
		Endpoint:  "127.0.0.1:0",
		Recv:      true,
		RawSocket: raw,
		PipeHWM:   64,
	})
	if err != nil {
		t.Fatalf("Open recv: %v", err)
	}
	t.Cleanup(func() { ep.Close() })
	port, err := ep.LocalPort()
	if err != nil {
		t.Fatalf("LocalPort: %v", err)
	}
	return ep, int(port)
}

// openSend opens a send-only endpoint targeting the loopback port.
func openSend(t *testing.T, port int, raw bool) *Endpoint {
	t.Helper()
	ep, err := Open(&Config{
		Endpoint:  fmt.Sprintf("127.0.0.1:%d", port),
		Send:      true,
		RawSocket: raw,
		PipeHWM:   64,
	})
	if err != nil {
		t.Fatalf("Open send: %v", err)
	}
	t.Cleanup(func() { ep.Close() })
	return ep
}

// recvWithTimeout runs Recv on a goroutine so a delivery failure cannot
// hang the test binary.
func recvWithTimeout(t *testing.T, ep *Endpoint, d time.Duration) (group, body []byte) {
	t.Helper()
	type result struct {
		group, body []byte
		err         error
	}
	ch := make(chan result, 1)
	go func() {
		g, b, err := ep.Recv()
		ch <- result{g, b, err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			t.Fatalf("Recv: %v", r.err)
		}
		return r.group, r.body
	case <-time.After(d):
		t.Fatalf("Recv timed out after %v", d)
		return nil, nil
	}
}

// TestUnicastPairDelivery — a sender endpoint and a receiver endpoint
// exchange a topic/body pair over loopback.
func TestUnicastPairDelivery(t *testing.T) {
	recv, port := openRecv(t, false)
	send := openSend(t, port, false)

	if err := send.Send([]byte("topic"), []byte("hello")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	group, body := recvWithTimeout(t, recv, 3*time.Second)
	if string(group) != "topic" {
		t.Errorf("group mismatch, got %q", group)
	}
	if string(body) != "hello" {
		t.Errorf("body mismatch, got %q", body)
	}
}

// TestManyPairsInOrderlessStream — every sent pair arrives intact over
// loopback (loopback does not drop or reorder in practice).
func TestManyPairsInOrderlessStream(t *testing.T) {
	recv, port := openRecv(t, false)
	send := openSend(t, port, false)

	const count = 32
	for i := 0; i < count; i++ {
		if err := send.Send([]byte("t"), []byte{byte(i)}); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}

	seen := make(map[byte]bool)
	for i := 0; i < count; i++ {
		_, body := recvWithTimeout(t, recv, 3*time.Second)
		if len(body) != 1 {
			t.Fatalf("unexpected body %q", body)
		}
		seen[body[0]] = true
	}
	if len(seen) != count {
		t.Errorf("received %d distinct bodies, want %d", len(seen), count)
	}
}

// TestRawModeRoundTrip — raw mode carries the payload bare and reports
// the sender's address as the group part.
func TestRawModeRoundTrip(t *testing.T) {
	recv, port := openRecv(t, true)
	send := openSend(t, port, true)

	dest := []byte(fmt.Sprintf("127.0.0.1:%d", port))
	if err := send.Send(dest, []byte("payload")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	group, body := recvWithTimeout(t, recv, 3*time.Second)
	if string(body) != "payload" {
		t.Errorf("payload mismatch, got %q", body)
	}
	if len(group) == 0 {
		t.Error("missing source address part")
	}
}

// TestTryRecvEmpty — TryRecv reports an empty pipe instead of blocking.
func TestTryRecvEmpty(t *testing.T) {
	recv, _ := openRecv(t, false)
	if _, _, err := recv.TryRecv(); err != api.ErrPipeEmpty {
		t.Errorf("expected ErrPipeEmpty, got %v", err)
	}
}

// TestSendAfterClose — a closed endpoint rejects sends.
func TestSendAfterClose(t *testing.T) {
	_, port := openRecv(t, false)
	send := openSend(t, port, false)
	if err := send.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := send.Send([]byte("g"), []byte("b")); err != api.ErrEngineClosed {
		t.Errorf("expected ErrEngineClosed, got %v", err)
	}
	if err := send.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

// TestRecvUnblocksOnClose — a blocked Recv returns once the endpoint
// closes.
func TestRecvUnblocksOnClose(t *testing.T) {
	recv, _ := openRecv(t, false)
	errCh := make(chan error, 1)
	go func() {
		_, _, err := recv.Recv()
		errCh <- err
	}()
	time.Sleep(50 * time.Millisecond)
	recv.Close()
	select {
	case err := <-errCh:
		if err != api.ErrEngineClosed {
			t.Errorf("expected ErrEngineClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Recv did not unblock on Close")
	}
}

// TestMulticastLoopback — two endpoints on the same multicast group see
// each other through loopback. Skipped where multicast is unavailable.
func TestMulticastLoopback(t *testing.T) {
	recv, err := Open(&Config{
		Endpoint:      "239.0.0.1:15670",
		Recv:          true,
		MulticastLoop: true,
		PipeHWM:       64,
	})
	if err != nil {
		t.Skipf("multicast receive unavailable: %v", err)
	}
	defer recv.Close()

	send, err := Open(&Config{
		Endpoint:      "239.0.0.1:15670",
		Send:          true,
		MulticastLoop: true,
		PipeHWM:       64,
	})
	if err != nil {
		t.Skipf("multicast send unavailable: %v", err)
	}
	defer send.Close()

	if err := send.Send([]byte("topic"), []byte("hello")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	type result struct{ group, body []byte }
	ch := make(chan result, 1)
	go func() {
		g, b, rerr := recv.Recv()
		if rerr == nil {
			ch <- result{g, b}
		}
	}()
	select {
	case r := <-ch:
		if string(r.group) != "topic" || string(r.body) != "hello" {
			t.Errorf("pair mismatch: %q/%q", r.group, r.body)
		}
	case <-time.After(2 * time.Second):
		t.Skip("multicast loopback delivery unavailable in this environment")
	}
}
