// File: protocol/dgram_test.go
// Author: momentics <momentics@gmail.com>

package protocol

import (
	"bytes"
	"testing"
)

// TestEncodeDecodeRoundTrip — encoding then decoding yields the original
// group/body pair.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	buf := make([]byte, 8192)
	group := []byte("topic")
	body := []byte("hioload-udp test datagram body")

	n, err := EncodeDgram(buf, group, body)
	if err != nil {
		t.Fatalf("EncodeDgram failed: %v", err)
	}
	if n != 1+len(group)+len(body) {
		t.Fatalf("encoded size mismatch, got %d", n)
	}

	g, b, err := DecodeDgram(buf[:n])
	if err != nil {
		t.Fatalf("DecodeDgram failed: %v", err)
	}
	if !bytes.Equal(g, group) {
		t.Errorf("group mismatch, got %q, want %q", g, group)
	}
	if !bytes.Equal(b, body) {
		t.Errorf("body mismatch, got %q, want %q", b, body)
	}
}

// TestEncodeWireLayout — group="topic", body="hello" produces the exact
// eleven wire bytes.
func TestEncodeWireLayout(t *testing.T) {
	buf := make([]byte, 64)
	n, err := EncodeDgram(buf, []byte("topic"), []byte("hello"))
	if err != nil {
		t.Fatalf("EncodeDgram failed: %v", err)
	}
	want := []byte{0x05, 't', 'o', 'p', 'i', 'c', 'h', 'e', 'l', 'l', 'o'}
	if !bytes.Equal(buf[:n], want) {
		t.Errorf("wire bytes mismatch, got % x, want % x", buf[:n], want)
	}
}

// TestEncodeEmptyGroupAndBody — both fields may be empty.
func TestEncodeEmptyGroupAndBody(t *testing.T) {
	buf := make([]byte, 8)
	n, err := EncodeDgram(buf, nil, nil)
	if err != nil {
		t.Fatalf("EncodeDgram failed: %v", err)
	}
	if n != 1 || buf[0] != 0 {
		t.Errorf("empty encode mismatch, n=%d first=%d", n, buf[0])
	}
	g, b, err := DecodeDgram(buf[:n])
	if err != nil {
		t.Fatalf("DecodeDgram failed: %v", err)
	}
	if len(g) != 0 || len(b) != 0 {
		t.Errorf("expected empty fields, got %d/%d bytes", len(g), len(b))
	}
}

// TestEncodeGroupTooLong — a group over 255 bytes is rejected.
func TestEncodeGroupTooLong(t *testing.T) {
	buf := make([]byte, 8192)
	if _, err := EncodeDgram(buf, make([]byte, 256), nil); err == nil {
		t.Error("expected error for oversized group")
	}
}

// TestEncodeOverflowRejected — frames that do not fit the buffer are
// rejected, never truncated.
func TestEncodeOverflowRejected(t *testing.T) {
	buf := make([]byte, 16)
	if _, err := EncodeDgram(buf, []byte("topic"), make([]byte, 16)); err == nil {
		t.Error("expected error for oversized frame")
	}
	// Exact fit still succeeds.
	if _, err := EncodeDgram(buf, []byte("topic"), make([]byte, 10)); err != nil {
		t.Errorf("exact-fit encode failed: %v", err)
	}
}

// TestDecodeTruncatedDropped — a datagram shorter than its declared
// group length is dropped whole.
func TestDecodeTruncatedDropped(t *testing.T) {
	if _, _, err := DecodeDgram([]byte{0x08, 'a', 'b'}); err == nil {
		t.Error("expected error for truncated datagram")
	}
	if _, _, err := DecodeDgram(nil); err == nil {
		t.Error("expected error for empty datagram")
	}
}

// TestDecodeGroupOnly — a datagram with no body decodes to an empty body.
func TestDecodeGroupOnly(t *testing.T) {
	g, b, err := DecodeDgram([]byte{0x02, 'h', 'i'})
	if err != nil {
		t.Fatalf("DecodeDgram failed: %v", err)
	}
	if string(g) != "hi" || len(b) != 0 {
		t.Errorf("decode mismatch, group %q body %d bytes", g, len(b))
	}
}
