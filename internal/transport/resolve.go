// File: internal/transport/resolve.go
// Author: momentics <momentics@gmail.com>
//
// Textual address resolution shared by the server and client paths.

package transport

import (
	"fmt"
	"net"

	"github.com/momentics/udpev/api"
)

// Resolve turns an optional textual IPv4 address and a port into a
// *net.UDPAddr. An empty ip means the wildcard address. Port validity
// (zero allowed or not) is the caller's policy and checked there.
func Resolve(ip string, port int) (*net.UDPAddr, error) {
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("resolve: port %d: %w", port, api.ErrInvalidArgument)
	}
	if ip == "" {
		return &net.UDPAddr{IP: net.IPv4zero, Port: port}, nil
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return nil, fmt.Errorf("resolve: %q is not an IPv4 address: %w", ip, api.ErrInvalidArgument)
	}
	return &net.UDPAddr{IP: parsed.To4(), Port: port}, nil
}
