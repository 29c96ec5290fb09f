// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness reactor interface.

package reactor

import "time"

// EventReactor waits for read readiness on registered descriptors.
type EventReactor interface {
	// Register adds a descriptor under an application-chosen name.
	Register(fd int, name int) error

	// Unregister removes a descriptor from the interest set.
	Unregister(fd int) error

	// Wait blocks until at least one descriptor is readable or timeout
	// elapses, filling events and returning the count. A negative
	// timeout blocks indefinitely, zero polls without blocking.
	Wait(events []Event, timeout time.Duration) (n int, err error)

	// Close releases the reactor's resources.
	Close() error
}

// Event reports one readable descriptor.
type Event struct {
	FD   int
	Name int // name supplied at Register time
}
