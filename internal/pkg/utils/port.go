package utils

import (
	"fmt"
	"net"
)

// FindFreePort returns the first port in [start, end] that host can bind, or 0 if none can.
func FindFreePort(host string, start, end int) int {
	for p := start; p <= end; p++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, p))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return p
	}
	return 0
}

// LANAddress returns the first non-loopback IPv4 address of this host, or 127.0.0.1.
func LANAddress() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "127.0.0.1"
}
