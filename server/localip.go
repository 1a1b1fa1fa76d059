package server

import (
	"net"
)

// fallbackIP is used when the outbound route cannot be determined.
const fallbackIP = "127.0.0.1"

// outboundIP returns the local IP address the kernel would use to reach
// host. It opens a throwaway UDP socket; no packet is actually sent, the
// connect only selects a route. Falls back to loopback on failure.
func outboundIP(host string) string {
	conn, err := net.Dial("udp", net.JoinHostPort(host, "9"))
	if err != nil {
		return fallbackIP
	}
	defer func() { _ = conn.Close() }()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && addr.IP != nil {
		return addr.IP.String()
	}
	return fallbackIP
}
