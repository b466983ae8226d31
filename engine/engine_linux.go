// File: engine/engine_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux datagram engine. Lifecycle is New -> Init -> Plug -> Terminate
// -> Close; InEvent/OutEvent are invoked by the poller, RestartInput/
// RestartOutput by the pipeline when pipe capacity reappears.

package engine

import (
	"fmt"
	"net/netip"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-udp/addr"
	"github.com/momentics/hioload-udp/api"
	"github.com/momentics/hioload-udp/internal/netutil"
	"github.com/momentics/hioload-udp/pool"
	"github.com/momentics/hioload-udp/protocol"
)

var log = logrus.WithField("module", "hioload-udp/engine")

const retiredFD = -1

// dgramBuffers serves the fixed per-direction engine buffers.
var dgramBuffers = pool.NewBytePool(MaxDgramSize)

// ioMode is the tagged operating-mode variant, selected once at Init.
// Raw mode never reads normal-mode target state and vice versa.
type ioMode interface{ isMode() }

// normalMode frames group/body pairs to a cached target address.
type normalMode struct {
	target   unix.Sockaddr
	loopback bool
}

func (*normalMode) isMode() {}

// rawMode sends bare bodies to per-datagram parsed destinations.
type rawMode struct{}

func (*rawMode) isMode() {}

// Engine is the non-blocking UDP datagram engine.
type Engine struct {
	opts Options

	fd      int
	handle  api.Handle
	plugged bool
	session api.Session

	ep          *addr.Endpoint
	sendEnabled bool
	recvEnabled bool
	mode        ioMode

	outBuf []byte
	inBuf  []byte
}

var _ api.Handler = (*Engine)(nil)

// New constructs an engine from configuration only; no resources are
// acquired until Init.
func New(opts Options) *Engine {
	return &Engine{opts: opts, fd: retiredFD}
}

// Init binds the engine to a resolved endpoint and opens the
// non-blocking socket. At least one of send and recv must be enabled.
func (e *Engine) Init(ep *addr.Endpoint, send, recv bool) error {
	if ep == nil {
		panic("engine: nil endpoint descriptor")
	}
	if !send && !recv {
		panic("engine: at least one of send and recv must be enabled")
	}

	family := unix.AF_INET6
	if ep.IsIPv4() {
		family = unix.AF_INET
	}
	fd, err := netutil.OpenDgramSocket(family)
	if err != nil {
		return err
	}

	e.fd = fd
	e.ep = ep
	e.sendEnabled = send
	e.recvEnabled = recv
	if e.opts.RawSocket {
		e.mode = &rawMode{}
	} else {
		e.mode = &normalMode{loopback: e.opts.MulticastLoop}
	}
	e.outBuf = dgramBuffers.GetBuffer()
	e.inBuf = dgramBuffers.GetBuffer()
	return nil
}

// Plug attaches the engine to a poller and a session: binds and joins as
// configured, arms readiness interest, and kicks the output path once so
// no queued message lingers until the first real write event.
func (e *Engine) Plug(p api.Poller, s api.Session) error {
	if e.plugged {
		panic("engine: already plugged")
	}
	if s == nil {
		panic("engine: nil session")
	}
	if e.fd == retiredFD {
		return api.ErrEngineClosed
	}

	handle, err := p.Register(e.fd, e)
	if err != nil {
		return fmt.Errorf("register with poller: %w", err)
	}
	e.handle = handle
	e.session = s
	e.plugged = true

	if err := e.configure(); err != nil {
		e.plugged = false
		e.session = nil
		_ = e.handle.Unregister()
		e.handle = nil
		return err
	}

	e.RestartOutput()
	return nil
}

// configure applies socket options, bind, membership and initial
// interest for the enabled directions.
func (e *Engine) configure() error {
	if e.opts.BoundDevice != "" {
		if err := netutil.BindToDevice(e.fd, e.opts.BoundDevice); err != nil {
			return err
		}
	}

	if e.sendEnabled {
		if nm, ok := e.mode.(*normalMode); ok {
			nm.target = netutil.Sockaddr(e.ep.Target())
			if e.ep.IsMulticast() {
				if err := setMulticastLoopback(e.fd, e.ep.IsIPv4(), nm.loopback); err != nil {
					return err
				}
			}
		}
		// Raw mode: the destination arrives with every datagram, no
		// static target to cache.
		e.handle.SetPollOut()
	}

	if e.recvEnabled {
		if err := netutil.SetReuseAddr(e.fd); err != nil {
			return err
		}

		bind := e.ep.Bind()
		if e.ep.IsMulticast() {
			// Bind the wildcard on the target port; the interface is
			// selected through membership, not through bind.
			wildcard := netip.IPv4Unspecified()
			if !e.ep.IsIPv4() {
				wildcard = netip.IPv6Unspecified()
			}
			bind = netip.AddrPortFrom(wildcard, e.ep.Target().Port())
		}
		if err := unix.Bind(e.fd, netutil.Sockaddr(bind)); err != nil {
			return fmt.Errorf("bind %s: %w", bind, err)
		}

		if e.ep.IsMulticast() {
			if err := joinMulticastGroup(e.fd, e.ep); err != nil {
				return err
			}
			log.WithField("group", e.ep.Target().String()).Debug("joined multicast group")
		}
		e.handle.SetPollIn()
	}
	return nil
}

// Terminate detaches the engine from the poller and the session. The
// socket stays open until Close; the owner disposes of the engine.
func (e *Engine) Terminate() {
	if !e.plugged {
		panic("engine: not plugged")
	}
	e.plugged = false
	_ = e.handle.Unregister()
	e.handle = nil
	e.session = nil
}

// Close releases the socket and buffers. The engine must be unplugged.
func (e *Engine) Close() error {
	if e.plugged {
		panic("engine: close while plugged")
	}
	if e.fd == retiredFD {
		return nil
	}
	err := unix.Close(e.fd)
	e.fd = retiredFD
	if e.outBuf != nil {
		dgramBuffers.PutBuffer(e.outBuf)
		dgramBuffers.PutBuffer(e.inBuf)
		e.outBuf = nil
		e.inBuf = nil
	}
	if err != nil {
		return fmt.Errorf("close socket: %w", err)
	}
	return nil
}

// OutEvent pulls one message pair from the session, frames it and sends
// a single datagram. An empty pipe disarms write interest until
// RestartOutput.
func (e *Engine) OutEvent() {
	group, err := e.session.PullMsg()
	if err != nil {
		e.handle.ResetPollOut()
		return
	}
	body, err := e.session.PullMsg()
	if err != nil {
		// Pairs are published atomically; half a pair is a contract
		// violation upstream.
		panic("engine: outbound message pair truncated")
	}

	var (
		size int
		dest unix.Sockaddr
	)
	switch m := e.mode.(type) {
	case *rawMode:
		ap, perr := addr.ParseRaw(group.Data)
		if perr != nil {
			// No feedback channel exists; both parts are discarded.
			log.WithField("address", string(group.Data)).Debug("dropping pair with invalid raw address")
			return
		}
		if len(body.Data) > len(e.outBuf) {
			log.WithField("size", len(body.Data)).Debug("dropping oversized raw datagram")
			return
		}
		size = copy(e.outBuf, body.Data)
		dest = netutil.Sockaddr(ap)

	case *normalMode:
		n, ferr := protocol.EncodeDgram(e.outBuf, group.Data, body.Data)
		if ferr != nil {
			log.WithFields(logrus.Fields{
				"group": len(group.Data),
				"body":  len(body.Data),
			}).Debug("dropping oversized datagram")
			return
		}
		size = n
		dest = m.target
	}

	if err := unix.Sendto(e.fd, e.outBuf[:size], 0, dest); err != nil {
		// UDP offers no retransmit; would-block or transient network
		// errors lose this datagram and processing continues.
		log.WithError(err).Debug("sendto failed, datagram dropped")
	}
}

// InEvent receives one datagram, decodes it and pushes the message pair
// to the session, group part first. Backpressure pauses read interest;
// a half-delivered pair additionally resets the session.
func (e *Engine) InEvent() {
	n, from, err := unix.Recvfrom(e.fd, e.inBuf, 0)
	if err != nil {
		// Would-block means a spurious wakeup; other errors have no
		// datagram to deliver either way.
		return
	}

	var group, body api.Msg
	switch e.mode.(type) {
	case *rawMode:
		text, ok := netutil.SockaddrText(from)
		if !ok {
			return
		}
		group = api.GroupMsg(text)
		body = api.BodyMsg(cloneBytes(e.inBuf[:n]))

	case *normalMode:
		g, b, derr := protocol.DecodeDgram(e.inBuf[:n])
		if derr != nil {
			log.WithField("len", n).Debug("dropping malformed datagram")
			return
		}
		group = api.GroupMsg(cloneBytes(g))
		body = api.BodyMsg(cloneBytes(b))
	}

	if err := e.session.PushMsg(group); err != nil {
		e.handle.ResetPollIn()
		return
	}
	if err := e.session.PushMsg(body); err != nil {
		// The group part is already in the pipe: reset the session so
		// the orphaned half-message cannot corrupt reassembly.
		e.session.Reset()
		e.handle.ResetPollIn()
		return
	}
	e.session.Flush()
}

// RestartOutput re-arms the send path after outbound pipe activity. A
// send-disabled engine instead drains and discards everything queued so
// the pipe can never deadlock.
func (e *Engine) RestartOutput() {
	if !e.plugged {
		return
	}
	if !e.sendEnabled {
		for {
			if _, err := e.session.PullMsg(); err != nil {
				return
			}
		}
	}
	e.handle.SetPollOut()
	e.OutEvent()
}

// RestartInput re-arms the receive path after the inbound pipe regained
// capacity.
func (e *Engine) RestartInput() {
	if !e.plugged || !e.recvEnabled {
		return
	}
	e.handle.SetPollIn()
	e.InEvent()
}

// LocalPort reports the port the socket is bound to.
func (e *Engine) LocalPort() (uint16, error) {
	if e.fd == retiredFD {
		return 0, api.ErrEngineClosed
	}
	return netutil.LocalPort(e.fd)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
