// File: addr/rawaddr_test.go
// Author: momentics <momentics@gmail.com>

package addr

import (
	"testing"
)

// TestParseRawValid — "10.0.0.1:9000" resolves to the numeric address.
func TestParseRawValid(t *testing.T) {
	ap, err := ParseRaw([]byte("10.0.0.1:9000"))
	if err != nil {
		t.Fatalf("ParseRaw failed: %v", err)
	}
	if got := ap.Addr().String(); got != "10.0.0.1" {
		t.Errorf("address mismatch, got %s, want 10.0.0.1", got)
	}
	if ap.Port() != 9000 {
		t.Errorf("port mismatch, got %d, want 9000", ap.Port())
	}
}

// TestParseRawZeroPort — port 0 is never a valid destination.
func TestParseRawZeroPort(t *testing.T) {
	if _, err := ParseRaw([]byte("10.0.0.1:0")); err == nil {
		t.Error("expected error for zero port")
	}
}

// TestParseRawNoDelimiter — input without a colon fails.
func TestParseRawNoDelimiter(t *testing.T) {
	if _, err := ParseRaw([]byte("10.0.0.1")); err == nil {
		t.Error("expected error for missing delimiter")
	}
	if _, err := ParseRaw([]byte("")); err == nil {
		t.Error("expected error for empty input")
	}
}

// TestParseRawBadHost — non-numeric hosts fail.
func TestParseRawBadHost(t *testing.T) {
	if _, err := ParseRaw([]byte("bad:9000")); err == nil {
		t.Error("expected error for invalid host")
	}
}

// TestParseRawBadPort — non-numeric and oversized ports fail.
func TestParseRawBadPort(t *testing.T) {
	for _, in := range []string{"10.0.0.1:", "10.0.0.1:port", "10.0.0.1:70000", "10.0.0.1:90a0"} {
		if _, err := ParseRaw([]byte(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

// TestParseRawLastColonWins — the scan finds the last colon, so a host
// containing colons never parses (IPv6 is unsupported by design).
func TestParseRawLastColonWins(t *testing.T) {
	if _, err := ParseRaw([]byte("fe80::1:9000")); err == nil {
		t.Error("expected error for IPv6 literal")
	}
}
