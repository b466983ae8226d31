// File: addr/rawaddr.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw-socket mode address parsing. In raw mode the group part of a
// message pair carries the destination as "host:port" text instead of a
// topic; this parser turns it into a numeric IPv4 address.

package addr

import (
	"net/netip"

	"github.com/momentics/hioload-udp/api"
)

// ParseRaw parses a textual "host:port" destination from a raw-mode
// group part. The delimiter is the last colon in the buffer, so IPv6
// literals are not supported. Port 0 is never valid. The host must be
// numeric dotted-decimal IPv4.
func ParseRaw(name []byte) (netip.AddrPort, error) {
	sep := -1
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == ':' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return netip.AddrPort{}, api.ErrInvalidRawAddress
	}

	port, ok := parsePort(name[sep+1:])
	if !ok || port == 0 {
		return netip.AddrPort{}, api.ErrInvalidRawAddress
	}

	host, err := netip.ParseAddr(string(name[:sep]))
	if err != nil || !host.Is4() {
		return netip.AddrPort{}, api.ErrInvalidRawAddress
	}

	return netip.AddrPortFrom(host, port), nil
}

// parsePort parses a strictly decimal port number.
func parsePort(b []byte) (uint16, bool) {
	if len(b) == 0 || len(b) > 5 {
		return 0, false
	}
	var n uint32
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint32(c-'0')
		if n > 0xFFFF {
			return 0, false
		}
	}
	return uint16(n), true
}
