// File: internal/netutil/netutil_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux socket option helpers and sockaddr conversions for the datagram
// engine.

package netutil

import (
	"fmt"
	"net/netip"
	"strconv"

	"golang.org/x/sys/unix"
)

// OpenDgramSocket opens a non-blocking connectionless socket for the
// given family (unix.AF_INET or unix.AF_INET6).
func OpenDgramSocket(family int) (int, error) {
	fd, err := unix.Socket(family, unix.SOCK_DGRAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_UDP)
	if err != nil {
		return -1, fmt.Errorf("socket create: %w", err)
	}
	return fd, nil
}

// SetReuseAddr enables address reuse so that multiple receivers can bind
// the same multicast port.
func SetReuseAddr(fd int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}
	return nil
}

// BindToDevice binds the socket to a named network device.
func BindToDevice(fd int, device string) error {
	if err := unix.SetsockoptString(fd, unix.SOL_SOCKET, unix.SO_BINDTODEVICE, device); err != nil {
		return fmt.Errorf("setsockopt SO_BINDTODEVICE %q: %w", device, err)
	}
	return nil
}

// Sockaddr converts an AddrPort into the sockaddr form used by bind and
// sendto.
func Sockaddr(ap netip.AddrPort) unix.Sockaddr {
	if a := ap.Addr(); a.Is4() || a.Is4In6() {
		sa := &unix.SockaddrInet4{Port: int(ap.Port())}
		sa.Addr = a.Unmap().As4()
		return sa
	}
	sa := &unix.SockaddrInet6{Port: int(ap.Port())}
	sa.Addr = ap.Addr().As16()
	return sa
}

// AddrPort converts a received sockaddr back into an AddrPort.
func AddrPort(sa unix.Sockaddr) (netip.AddrPort, bool) {
	switch s := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(s.Addr), uint16(s.Port)), true
	case *unix.SockaddrInet6:
		return netip.AddrPortFrom(netip.AddrFrom16(s.Addr), uint16(s.Port)), true
	}
	return netip.AddrPort{}, false
}

// SockaddrText renders a sender address as "ip:port" bytes, the form
// delivered as the group part in raw-socket mode.
func SockaddrText(sa unix.Sockaddr) ([]byte, bool) {
	ap, ok := AddrPort(sa)
	if !ok {
		return nil, false
	}
	text := ap.Addr().Unmap().String() + ":" + strconv.Itoa(int(ap.Port()))
	return []byte(text), true
}

// LocalPort reports the port a bound socket ended up on.
func LocalPort(fd int) (uint16, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return 0, fmt.Errorf("getsockname: %w", err)
	}
	ap, ok := AddrPort(sa)
	if !ok {
		return 0, fmt.Errorf("getsockname: unexpected sockaddr type %T", sa)
	}
	return ap.Port(), nil
}
