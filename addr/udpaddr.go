// File: addr/udpaddr.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Resolution of textual UDP endpoints into structured descriptors
// consumed by the datagram engine. An endpoint is "host:port" or,
// with an explicit interface for multicast, "iface;host:port".

package addr

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// Endpoint is a resolved UDP endpoint descriptor. It distinguishes
// unicast from multicast targets and carries everything the engine
// needs for binding, sending and multicast membership.
type Endpoint struct {
	bind      netip.AddrPort
	target    netip.AddrPort
	ifaceIdx  int        // interface index for IPv6 joins, 0 = any
	ifaceAddr netip.Addr // interface address for IPv4 joins
	multicast bool
	text      string
}

// Resolve parses and resolves a UDP endpoint string.
//
// forBind selects the receiver interpretation: the host part becomes the
// bind address. For senders the host part becomes the target address and
// the bind address is the family-matched wildcard. A "*" host means the
// wildcard address (IPv4 unless the port suggests otherwise).
func Resolve(endpoint string, forBind bool) (*Endpoint, error) {
	spec := endpoint
	ifaceName := ""
	if i := strings.IndexByte(spec, ';'); i >= 0 {
		ifaceName = spec[:i]
		spec = spec[i+1:]
	}

	ap, err := resolveHostPort(spec)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", endpoint, err)
	}

	e := &Endpoint{
		target:    ap,
		multicast: ap.Addr().IsMulticast(),
		text:      endpoint,
	}

	if forBind {
		e.bind = ap
	} else {
		wildcard := netip.IPv4Unspecified()
		if ap.Addr().Is6() && !ap.Addr().Is4In6() {
			wildcard = netip.IPv6Unspecified()
		}
		e.bind = netip.AddrPortFrom(wildcard, 0)
	}

	if ifaceName != "" {
		if err := e.bindInterface(ifaceName); err != nil {
			return nil, fmt.Errorf("resolve %q: %w", endpoint, err)
		}
	}
	return e, nil
}

// bindInterface resolves an interface name into the join parameters:
// the index for IPv6 membership and the first IPv4 address for IPv4
// membership.
func (e *Endpoint) bindInterface(name string) error {
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return fmt.Errorf("interface %q: %w", name, err)
	}
	e.ifaceIdx = ifi.Index

	addrs, err := ifi.Addrs()
	if err != nil {
		return fmt.Errorf("interface %q addresses: %w", name, err)
	}
	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		if v4 := ipn.IP.To4(); v4 != nil {
			if ip, ok := netip.AddrFromSlice(v4); ok {
				e.ifaceAddr = ip
				break
			}
		}
	}
	return nil
}

// resolveHostPort parses "host:port", resolving hostnames if needed.
func resolveHostPort(spec string) (netip.AddrPort, error) {
	if ap, err := netip.ParseAddrPort(spec); err == nil {
		return ap, nil
	}

	host, port, err := net.SplitHostPort(spec)
	if err != nil {
		return netip.AddrPort{}, err
	}
	if host == "*" || host == "" {
		ap, perr := netip.ParseAddrPort(net.JoinHostPort("0.0.0.0", port))
		if perr != nil {
			return netip.AddrPort{}, perr
		}
		return ap, nil
	}

	ua, err := net.ResolveUDPAddr("udp", spec)
	if err != nil {
		return netip.AddrPort{}, err
	}
	ip, ok := netip.AddrFromSlice(ua.IP)
	if !ok {
		return netip.AddrPort{}, fmt.Errorf("unresolvable host %q", host)
	}
	return netip.AddrPortFrom(ip.Unmap(), uint16(ua.Port)), nil
}

// IsIPv4 reports whether the endpoint family is IPv4.
func (e *Endpoint) IsIPv4() bool {
	a := e.target.Addr()
	return a.Is4() || a.Is4In6()
}

// IsMulticast reports whether the target address is a multicast group.
func (e *Endpoint) IsMulticast() bool { return e.multicast }

// Bind returns the address the receiving socket binds to. For multicast
// the engine rebinds the wildcard on the target port instead; interface
// selection happens through membership, not bind.
func (e *Endpoint) Bind() netip.AddrPort { return e.bind }

// Target returns the send destination (and the group for multicast).
func (e *Endpoint) Target() netip.AddrPort { return e.target }

// BindIface returns the interface index used for IPv6 joins, 0 for any.
func (e *Endpoint) BindIface() int { return e.ifaceIdx }

// IfaceAddr returns the interface IPv4 address used for IPv4 joins.
// The zero Addr means "any interface".
func (e *Endpoint) IfaceAddr() netip.Addr { return e.ifaceAddr }

// Text returns the endpoint string this descriptor was resolved from.
func (e *Endpoint) Text() string { return e.text }
