// File: api/msg.go
// Author: momentics <momentics@gmail.com>
//
// Two-part datagram message value exchanged through session pipes.

package api

// Msg is one part of a logical datagram message. A logical message is
// always a pair: a group part with More set, followed by a body part
// with More unset.
type Msg struct {
	Data []byte
	More bool
}

// GroupMsg builds the leading part of a message pair.
func GroupMsg(data []byte) Msg {
	return Msg{Data: data, More: true}
}

// BodyMsg builds the trailing part of a message pair.
func BodyMsg(data []byte) Msg {
	return Msg{Data: data}
}
