// Package transport
// Author: momentics <momentics@gmail.com>
//
// Raw UDP socket lifecycle: create, bind, send, receive and address
// resolution, expressed over golang.org/x/sys/unix file descriptors so
// the reactor can multiplex them directly. IPv4 only, matching the
// sockaddr_in surface of the runtime's API.

package transport
