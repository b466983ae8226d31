// File: engine/mcast_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Multicast membership: translates a group target plus a bind interface
// into the join request and loopback option for the right protocol
// level. IPv4 selects the interface by local address, IPv6 by index.

package engine

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-udp/addr"
)

// setMulticastLoopback configures whether multicast sends are delivered
// back to the local host.
func setMulticastLoopback(fd int, ipv4 bool, loop bool) error {
	v := 0
	if loop {
		v = 1
	}
	var err error
	if ipv4 {
		err = unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_MULTICAST_LOOP, v)
	} else {
		err = unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_MULTICAST_LOOP, v)
	}
	if err != nil {
		return fmt.Errorf("setsockopt multicast loopback: %w", err)
	}
	return nil
}

// joinMulticastGroup issues the membership request for the endpoint's
// target group. Address resolution guarantees an IPv4 or IPv6 group;
// anything else is a fatal contract violation.
func joinMulticastGroup(fd int, ep *addr.Endpoint) error {
	group := ep.Target().Addr()
	switch {
	case group.Is4() || group.Is4In6():
		mreq := &unix.IPMreq{}
		a4 := group.Unmap().As4()
		copy(mreq.Multiaddr[:], a4[:])
		if ifa := ep.IfaceAddr(); ifa.IsValid() {
			i4 := ifa.Unmap().As4()
			copy(mreq.Interface[:], i4[:])
		}
		if err := unix.SetsockoptIPMreq(fd, unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP, mreq); err != nil {
			return fmt.Errorf("join %s: %w", group, err)
		}
	case group.Is6():
		mreq := &unix.IPv6Mreq{Interface: uint32(ep.BindIface())}
		a16 := group.As16()
		copy(mreq.Multiaddr[:], a16[:])
		if err := unix.SetsockoptIPv6Mreq(fd, unix.IPPROTO_IPV6, unix.IPV6_JOIN_GROUP, mreq); err != nil {
			return fmt.Errorf("join %s: %w", group, err)
		}
	default:
		panic("engine: unsupported address family for multicast join")
	}
	return nil
}
