package client

import "net"

// Connectivity signals whether the device is online. Recognize fails fast
// without touching the transport when it reports false.
type Connectivity interface {
	Online() bool
}

// interfaceProbe reports online when any non-loopback interface is up with
// an address. It never performs network I/O.
type interfaceProbe struct{}

func (interfaceProbe) Online() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		// Cannot tell; let the request attempt decide.
		return true
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}
