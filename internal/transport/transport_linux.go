// internal/transport/transport_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux UDP socket operations via x/sys/unix.

package transport

import (
	"fmt"
	"net"

	"github.com/momentics/udpev/api"
	"golang.org/x/sys/unix"
)

// Open creates a non-blocking UDP socket bound to ip:port and returns
// it with the resolved bind address. An empty ip binds the wildcard
// address; port 0 lets the OS assign one.
func Open(ip string, port int) (int, *net.UDPAddr, error) {
	addr, err := Resolve(ip, port)
	if err != nil {
		return -1, nil, err
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, nil, fmt.Errorf("socket create: %v: %w", err, api.ErrTransportFailure)
	}
	sa := &unix.SockaddrInet4{Port: addr.Port}
	copy(sa.Addr[:], addr.IP.To4())
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, nil, fmt.Errorf("bind %s:%d: %v: %w", addr.IP, addr.Port, err, api.ErrTransportFailure)
	}
	return fd, addr, nil
}

// SendTo writes one datagram to addr.
func SendTo(fd int, addr *net.UDPAddr, payload []byte) error {
	if addr == nil || addr.IP.To4() == nil {
		return fmt.Errorf("send: bad destination: %w", api.ErrInvalidArgument)
	}
	if len(payload) > api.MaxPacket {
		return fmt.Errorf("send: payload %d exceeds %d: %w", len(payload), api.MaxPacket, api.ErrInvalidArgument)
	}
	sa := &unix.SockaddrInet4{Port: addr.Port}
	copy(sa.Addr[:], addr.IP.To4())
	if err := unix.Sendto(fd, payload, 0, sa); err != nil {
		return fmt.Errorf("sendto %s: %v: %w", addr, err, api.ErrTransportFailure)
	}
	return nil
}

// RecvFrom reads one datagram into buf. When the socket has nothing
// queued it returns (0, nil, nil).
func RecvFrom(fd int, buf []byte) (int, *net.UDPAddr, error) {
	n, from, err := unix.Recvfrom(fd, buf, 0)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return 0, nil, nil
		}
		return 0, nil, fmt.Errorf("recvfrom: %v: %w", err, api.ErrTransportFailure)
	}
	sa, ok := from.(*unix.SockaddrInet4)
	if !ok {
		return 0, nil, fmt.Errorf("recvfrom: unexpected address family: %w", api.ErrTransportFailure)
	}
	addr := &net.UDPAddr{IP: net.IP(sa.Addr[:]).To16(), Port: sa.Port}
	return n, addr, nil
}

// WaitReadable blocks until fd is readable or timeoutMs elapses.
// Returns false on timeout. A negative timeout blocks indefinitely.
func WaitReadable(fd int, timeoutMs int) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, timeoutMs)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("poll: %v: %w", err, api.ErrTransportFailure)
		}
		return n > 0, nil
	}
}

// LocalPort reports the port the socket is bound to, which is the
// OS-assigned one after binding port 0.
func LocalPort(fd int) (int, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return 0, fmt.Errorf("getsockname: %v: %w", err, api.ErrTransportFailure)
	}
	in4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return 0, fmt.Errorf("getsockname: unexpected address family: %w", api.ErrTransportFailure)
	}
	return in4.Port, nil
}

// Pipe returns a non-blocking pipe pair used by the loop as a wake-up
// channel for Exit and ExitLater.
func Pipe() (r, w int, err error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return -1, -1, fmt.Errorf("pipe: %v: %w", err, api.ErrTransportFailure)
	}
	return p[0], p[1], nil
}

// WakeWrite drops one byte into the wake pipe; a full pipe already
// guarantees a pending wake, so EAGAIN is ignored.
func WakeWrite(fd int) {
	var b [1]byte
	_, _ = unix.Write(fd, b[:])
}

// Drain empties a non-blocking descriptor, discarding the bytes.
func Drain(fd int) {
	var b [64]byte
	for {
		n, err := unix.Read(fd, b[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// Close releases the descriptor.
func Close(fd int) error {
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("close: %v: %w", err, api.ErrTransportFailure)
	}
	return nil
}
