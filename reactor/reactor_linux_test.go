//go:build linux
// +build linux

// reactor_linux_test.go — epoll reactor: bounded wait, readiness
// reporting with registered names, unregister.

package reactor_test

import (
	"testing"
	"time"

	"github.com/momentics/udpev/internal/transport"
	"github.com/momentics/udpev/reactor"
)

func TestWaitHonorsTimeout(t *testing.T) {
	r, err := reactor.NewReactor()
	if err != nil {
		t.Fatalf("NewReactor: %v", err)
	}
	defer r.Close()

	events := make([]reactor.Event, 4)
	start := time.Now()
	n, err := r.Wait(events, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if n != 0 {
		t.Errorf("idle reactor reported %d events", n)
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Error("Wait returned before the timeout elapsed")
	}
}

func TestReadinessCarriesName(t *testing.T) {
	r, err := reactor.NewReactor()
	if err != nil {
		t.Fatalf("NewReactor: %v", err)
	}
	defer r.Close()

	fd, _, err := transport.Open("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer transport.Close(fd)
	if err := r.Register(fd, 42); err != nil {
		t.Fatalf("Register: %v", err)
	}

	port, _ := transport.LocalPort(fd)
	dst, _ := transport.Resolve("127.0.0.1", port)
	sender, _, err := transport.Open("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Open sender: %v", err)
	}
	defer transport.Close(sender)
	if err := transport.SendTo(sender, dst, []byte("x")); err != nil {
		t.Fatalf("SendTo: %v", err)
	}

	events := make([]reactor.Event, 4)
	n, err := r.Wait(events, time.Second)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if n != 1 {
		t.Fatalf("Wait reported %d events, want 1", n)
	}
	if events[0].FD != fd || events[0].Name != 42 {
		t.Errorf("event = %+v, want fd %d name 42", events[0], fd)
	}

	// Drain, unregister, send again: no more readiness reported.
	transport.RecvFrom(fd, make([]byte, 16))
	if err := r.Unregister(fd); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	transport.SendTo(sender, dst, []byte("y"))
	n, err = r.Wait(events, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Wait after Unregister: %v", err)
	}
	if n != 0 {
		t.Errorf("unregistered fd still reported ready")
	}
}
