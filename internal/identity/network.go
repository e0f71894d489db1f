package identity

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrNoInterface is returned when no usable network interface exists.
var ErrNoInterface = errors.New("no usable network interface")

// Network reports connectivity and the hardware address used to derive the device id.
type Network interface {
	Connected() bool
	HardwareAddr() (string, error)
}

// StaticNetwork is a fixed Network.
type StaticNetwork struct {
	Online bool
	MAC    string
}

func (s StaticNetwork) Connected() bool {
	return s.Online
}

func (s StaticNetwork) HardwareAddr() (string, error) {
	if s.MAC == "" {
		return "", ErrNoInterface
	}
	return s.MAC, nil
}

// SystemNetwork probes the host's network interfaces.
//
// If Interface is set only that interface is considered. Otherwise the first interface
// that is up, not loopback and has a hardware address is used.
type SystemNetwork struct {
	Interface string
}

func (s SystemNetwork) Connected() bool {
	iface, err := s.pick()
	if err != nil {
		return false
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if !ipNet.IP.IsLoopback() && !ipNet.IP.IsLinkLocalUnicast() {
			return true
		}
	}
	return false
}

func (s SystemNetwork) HardwareAddr() (string, error) {
	iface, err := s.pick()
	if err != nil {
		return "", err
	}
	return iface.HardwareAddr.String(), nil
}

func (s SystemNetwork) pick() (*net.Interface, error) {
	if s.Interface != "" {
		iface, err := net.InterfaceByName(s.Interface)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", s.Interface, err)
		}
		if len(iface.HardwareAddr) == 0 {
			return nil, fmt.Errorf("interface %s has no hardware address: %w", s.Interface, ErrNoInterface)
		}
		return iface, nil
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}
	for i := range ifaces {
		iface := &ifaces[i]
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface, nil
	}
	return nil, ErrNoInterface
}

// NormalizeHardwareAddr strips separators from a hardware address and upper-cases it.
func NormalizeHardwareAddr(addr string) string {
	var b strings.Builder
	b.Grow(len(addr))
	for _, r := range addr {
		switch r {
		case ':', '-', '.', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
