// File: protocol/dgram.go
// Package protocol implements the datagram framing codec.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Normal-mode wire layout, per datagram:
//
//	[1 byte: group length L][L bytes: group][remaining bytes: body]
//
// The group length field is a single byte, so groups longer than 255
// bytes cannot be represented. Encoding is done in-buffer against the
// caller's fixed datagram buffer and never writes past its capacity.

package protocol

import (
	"github.com/momentics/hioload-udp/api"
)

// MaxGroupLen is the hard representational limit of the group field.
const MaxGroupLen = 255

// EncodeDgram writes the group/body pair into dst and returns the number
// of bytes written. Returns ErrFrameTooLarge if the group exceeds
// MaxGroupLen or the framed datagram does not fit dst.
func EncodeDgram(dst []byte, group, body []byte) (int, error) {
	if len(group) > MaxGroupLen {
		return 0, api.ErrFrameTooLarge
	}
	size := 1 + len(group) + len(body)
	if size > len(dst) {
		return 0, api.ErrFrameTooLarge
	}

	dst[0] = byte(len(group))
	copy(dst[1:], group)
	copy(dst[1+len(group):], body)
	return size, nil
}

// DecodeDgram splits a received datagram into its group and body fields.
// The returned slices alias raw. Returns ErrMalformedDgram when the
// datagram is empty or shorter than its declared group length; such
// datagrams are dropped whole, never partially delivered.
func DecodeDgram(raw []byte) (group, body []byte, err error) {
	if len(raw) < 1 {
		return nil, nil, api.ErrMalformedDgram
	}
	groupLen := int(raw[0])
	if len(raw)-1 < groupLen {
		return nil, nil, api.ErrMalformedDgram
	}
	return raw[1 : 1+groupLen], raw[1+groupLen:], nil
}
