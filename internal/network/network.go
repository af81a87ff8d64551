// internal/network/network.go
package network

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoAddress means the interface is down or holds no usable address.
var ErrNoAddress = errors.New("network: no usable address")

// Interface is a network session backed by a host interface.
// Association succeeds once the interface is up and holds a unicast
// address. Name empty means any up, non-loopback interface.
type Interface struct {
	Name string

	// lookup is replaceable in tests.
	lookup func() ([]ifaceAddrs, error)
}

type ifaceAddrs struct {
	name  string
	flags net.Flags
	addrs []net.Addr
}

func NewInterface(name string) *Interface {
	return &Interface{Name: name, lookup: hostInterfaces}
}

// Associate makes one association check and returns the address.
func (i *Interface) Associate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ifs, err := i.lookup()
	if err != nil {
		return "", fmt.Errorf("network: list interfaces: %w", err)
	}

	for _, it := range ifs {
		if i.Name != "" && it.name != i.Name {
			continue
		}
		if i.Name == "" && it.flags&net.FlagLoopback != 0 {
			continue
		}
		if it.flags&net.FlagUp == 0 {
			continue
		}
		if addr := pickAddr(it.addrs); addr != "" {
			return addr, nil
		}
	}

	if i.Name != "" {
		return "", fmt.Errorf("%w on %s", ErrNoAddress, i.Name)
	}
	return "", ErrNoAddress
}

// Connected re-checks association.
func (i *Interface) Connected() bool {
	_, err := i.Associate(context.Background())
	return err == nil
}

// pickAddr prefers IPv4 over global IPv6 and skips link-local.
func pickAddr(addrs []net.Addr) string {
	var v6 string
	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipn.IP
		if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			continue
		}
		if ip.To4() != nil {
			return ip.String()
		}
		if v6 == "" {
			v6 = ip.String()
		}
	}
	return v6
}

func hostInterfaces() ([]ifaceAddrs, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]ifaceAddrs, 0, len(ifs))
	for _, it := range ifs {
		addrs, err := it.Addrs()
		if err != nil {
			continue
		}
		out = append(out, ifaceAddrs{name: it.Name, flags: it.Flags, addrs: addrs})
	}
	return out, nil
}
