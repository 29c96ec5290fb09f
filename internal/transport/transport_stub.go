//go:build !linux
// +build !linux

// File: internal/transport/transport_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub socket layer for unsupported platforms.

package transport

import (
	"fmt"
	"net"

	"github.com/momentics/udpev/api"
)

func errUnsupported(op string) error {
	return fmt.Errorf("transport: %s: %w on this platform", op, api.ErrNotSupported)
}

func Open(ip string, port int) (int, *net.UDPAddr, error) {
	return -1, nil, errUnsupported("open")
}

func SendTo(fd int, addr *net.UDPAddr, payload []byte) error { return errUnsupported("send") }

func RecvFrom(fd int, buf []byte) (int, *net.UDPAddr, error) {
	return 0, nil, errUnsupported("recv")
}

func WaitReadable(fd int, timeoutMs int) (bool, error) { return false, errUnsupported("poll") }

func LocalPort(fd int) (int, error) { return 0, errUnsupported("getsockname") }

func Pipe() (r, w int, err error) { return -1, -1, errUnsupported("pipe") }

func WakeWrite(fd int) {}

func Drain(fd int) {}

func Close(fd int) error { return errUnsupported("close") }
