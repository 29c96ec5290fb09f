// File: api/handler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Callback capability types. Each registration point in the runtime
// (endpoint, cron task, timer) takes exactly one function value, selected
// at construction time.

package api

import "net"

// MaxPacket is the largest UDP payload the runtime reads or writes.
const MaxPacket = 65535

// Packet is one inbound datagram handed to a PacketHandler.
//
// Payload aliases the dispatcher's receive buffer and is only valid for
// the duration of the handler call; handlers that need the bytes past
// return must copy them.
type Packet struct {
	Name    int          // owning endpoint name
	Addr    *net.UDPAddr // datagram source address
	Payload []byte
}

// PacketHandler processes one inbound datagram. A non-nil error is
// non-fatal: it is reported through the log sink and the loop continues.
type PacketHandler func(pkt *Packet) error

// CronFunc is a periodic task callback.
type CronFunc func()

// ExpireFunc receives the payload of a session whose deadline passed.
// The payload bytes stay readable for the duration of the call, but the
// session itself is already gone: Get and Delete on its sequence report
// not-found.
type ExpireFunc func(payload []byte)

// LoopFunc, when supplied to Run, is invoked once after each
// successfully dispatched datagram.
type LoopFunc func()
