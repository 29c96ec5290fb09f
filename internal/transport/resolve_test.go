// resolve_test.go — address resolution helper contract.

package transport_test

import (
	"errors"
	"testing"

	"github.com/momentics/udpev/api"
	"github.com/momentics/udpev/internal/transport"
)

func TestResolveWildcard(t *testing.T) {
	addr, err := transport.Resolve("", 9000)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !addr.IP.IsUnspecified() {
		t.Errorf("empty ip resolved to %v, want wildcard", addr.IP)
	}
	if addr.Port != 9000 {
		t.Errorf("port = %d, want 9000", addr.Port)
	}
}

func TestResolveExplicit(t *testing.T) {
	addr, err := transport.Resolve("127.0.0.1", 53)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if addr.String() != "127.0.0.1:53" {
		t.Errorf("resolved %s, want 127.0.0.1:53", addr)
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	cases := []struct {
		ip   string
		port int
	}{
		{"not-an-ip", 9000},
		{"::1", 9000}, // IPv6 is outside the runtime's surface
		{"127.0.0.1", -1},
		{"127.0.0.1", 70000},
	}
	for _, c := range cases {
		if _, err := transport.Resolve(c.ip, c.port); !errors.Is(err, api.ErrInvalidArgument) {
			t.Errorf("Resolve(%q, %d): got %v, want ErrInvalidArgument", c.ip, c.port, err)
		}
	}
}
