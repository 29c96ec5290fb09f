// File: client/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Client-side UDP contexts, independent of the event loop: a bound
// socket with blocking send/receive and an optional receive timeout,
// for request/response exchanges where no reactor is running.

package client

import (
	"fmt"
	"net"
	"time"

	"github.com/momentics/udpev/api"
	"github.com/momentics/udpev/internal/transport"
)

// Conn is one client-side UDP socket.
type Conn struct {
	fd      int
	created time.Time
	remote  *net.UDPAddr // source of the last received datagram
}

// Resolve turns a textual IPv4 address (empty means wildcard) and a
// port into a *net.UDPAddr.
func Resolve(ip string, port int) (*net.UDPAddr, error) {
	return transport.Resolve(ip, port)
}

// Dial binds a UDP socket to ip:port. Port 0 asks the OS for an
// ephemeral port, empty ip binds the wildcard address.
func Dial(ip string, port int) (*Conn, error) {
	fd, _, err := transport.Open(ip, port)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &Conn{fd: fd, created: time.Now()}, nil
}

// Send writes one datagram to addr.
func (c *Conn) Send(addr *net.UDPAddr, payload []byte) error {
	return transport.SendTo(c.fd, addr, payload)
}

// Recv blocks until a datagram arrives or timeout elapses, reading into
// buf. A nil timeout blocks indefinitely. On expiry it returns
// api.ErrTimeout, distinguished from transport failure.
func (c *Conn) Recv(buf []byte, timeout *time.Duration) (int, *net.UDPAddr, error) {
	deadline := time.Time{}
	if timeout != nil {
		deadline = time.Now().Add(*timeout)
	}
	for {
		ms := -1
		if timeout != nil {
			left := time.Until(deadline)
			if left <= 0 {
				return 0, nil, fmt.Errorf("recv: %w", api.ErrTimeout)
			}
			ms = int(left / time.Millisecond)
			if ms == 0 {
				ms = 1
			}
		}
		readable, err := transport.WaitReadable(c.fd, ms)
		if err != nil {
			return 0, nil, fmt.Errorf("recv: %w", err)
		}
		if !readable {
			return 0, nil, fmt.Errorf("recv: %w", api.ErrTimeout)
		}
		n, addr, err := transport.RecvFrom(c.fd, buf)
		if err != nil {
			return 0, nil, fmt.Errorf("recv: %w", err)
		}
		if addr == nil {
			continue // readiness raced with another reader
		}
		c.remote = addr
		return n, addr, nil
	}
}

// RemoteAddr reports the source of the last received datagram, nil
// before the first Recv.
func (c *Conn) RemoteAddr() *net.UDPAddr {
	return c.remote
}

// LocalPort reports the bound port, useful after binding port 0.
func (c *Conn) LocalPort() (int, error) {
	return transport.LocalPort(c.fd)
}

// Created reports when the socket was opened.
func (c *Conn) Created() time.Time {
	return c.created
}

// Close releases the socket.
func (c *Conn) Close() error {
	return transport.Close(c.fd)
}
