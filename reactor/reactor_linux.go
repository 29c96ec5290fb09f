//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation and factory.

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// linuxReactor is a level-triggered epoll reactor. Level triggering
// matches the loop's read-one-datagram-per-readiness dispatch: a socket
// with more queued datagrams reports ready again on the next wait.
type linuxReactor struct {
	epfd  int
	names map[int]int // fd -> registered name
	raw   []unix.EpollEvent
}

// NewReactor constructs the platform EventReactor for Linux.
func NewReactor() (EventReactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &linuxReactor{epfd: epfd, names: make(map[int]int)}, nil
}

// Register adds a file descriptor to the epoll interest set.
func (r *linuxReactor) Register(fd int, name int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	r.names[fd] = name
	return nil
}

// Unregister removes a file descriptor from the epoll interest set.
func (r *linuxReactor) Unregister(fd int) error {
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	delete(r.names, fd)
	return nil
}

// Wait blocks for readiness bounded by timeout.
func (r *linuxReactor) Wait(events []Event, timeout time.Duration) (int, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
		// Round sub-millisecond waits up so a short deadline does not
		// degrade into a busy poll.
		if ms == 0 && timeout > 0 {
			ms = 1
		}
	}
	if len(r.raw) < len(events) {
		r.raw = make([]unix.EpollEvent, len(events))
	}
	n, err := unix.EpollWait(r.epfd, r.raw[:len(events)], ms)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}
	for i := 0; i < n; i++ {
		fd := int(r.raw[i].Fd)
		events[i] = Event{FD: fd, Name: r.names[fd]}
	}
	return n, nil
}

// Close releases the epoll file descriptor.
func (r *linuxReactor) Close() error {
	return unix.Close(r.epfd)
}
