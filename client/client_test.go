//go:build linux
// +build linux

// client_test.go — loop-independent client contract: exchange over the
// loopback, receive timeout as a distinct outcome.

package client_test

import (
	"errors"
	"testing"
	"time"

	"github.com/momentics/udpev/api"
	"github.com/momentics/udpev/client"
)

func TestSendRecvBetweenConns(t *testing.T) {
	a, err := client.Dial("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Dial a: %v", err)
	}
	defer a.Close()
	b, err := client.Dial("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Dial b: %v", err)
	}
	defer b.Close()

	bPort, err := b.LocalPort()
	if err != nil {
		t.Fatalf("LocalPort: %v", err)
	}
	dst, err := client.Resolve("127.0.0.1", bPort)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := a.Send(dst, []byte("hello")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	timeout := time.Second
	buf := make([]byte, 64)
	n, from, err := b.Recv(buf, &timeout)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Errorf("payload %q, want \"hello\"", buf[:n])
	}
	aPort, _ := a.LocalPort()
	if from.Port != aPort {
		t.Errorf("source port %d, want %d", from.Port, aPort)
	}
	if b.RemoteAddr() == nil || b.RemoteAddr().Port != aPort {
		t.Errorf("RemoteAddr not updated by Recv")
	}
}

func TestRecvTimeout(t *testing.T) {
	c, err := client.Dial("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	timeout := 50 * time.Millisecond
	start := time.Now()
	_, _, err = c.Recv(make([]byte, 16), &timeout)
	if !errors.Is(err, api.ErrTimeout) {
		t.Fatalf("Recv: got %v, want ErrTimeout", err)
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Error("Recv timed out early")
	}
}

func TestEphemeralPortAssigned(t *testing.T) {
	c, err := client.Dial("", 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()
	port, err := c.LocalPort()
	if err != nil {
		t.Fatalf("LocalPort: %v", err)
	}
	if port == 0 {
		t.Error("OS did not assign a port")
	}
	if c.Created().IsZero() {
		t.Error("creation time not recorded")
	}
}

func TestSendOversizedRejected(t *testing.T) {
	c, err := client.Dial("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()
	dst, _ := client.Resolve("127.0.0.1", 9)
	if err := c.Send(dst, make([]byte, api.MaxPacket+1)); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("oversized send: got %v, want ErrInvalidArgument", err)
	}
}
