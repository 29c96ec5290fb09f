// File: timer/timer.go
// Author: momentics <momentics@gmail.com>
//
// Timer: one timeout/size/callback configuration and the insertion-order
// list of its live sessions.

package timer

import (
	"container/list"
	"fmt"
	"time"

	"github.com/momentics/udpev/api"
)

// Timer groups sessions sharing one timeout duration, payload size and
// expiry callback. Create timers with Engine.NewTimer.
type Timer struct {
	engine   *Engine
	timeout  time.Duration
	size     int
	onExpire api.ExpireFunc
	order    *list.List // slot indexes (uint32) in insertion order
	live     int
}

// Timeout returns the fixed expiry duration applied to every session.
func (t *Timer) Timeout() time.Duration { return t.timeout }

// SessionSize returns the fixed payload size in bytes.
func (t *Timer) SessionSize() int { return t.size }

// Len returns the number of currently live sessions owned by the timer.
func (t *Timer) Len() int { return t.live }

// Add allocates a new session under the timer and returns its payload
// and fresh non-zero sequence. When initial is non-nil its bytes are
// copied in and must be exactly SessionSize long; otherwise the payload
// starts zero-filled. The deadline is now plus the timer's timeout.
//
// The returned slice aliases the session's storage: its address is
// stable until the session is deleted or expires, and the engine retains
// ownership of it.
func (t *Timer) Add(initial []byte) ([]byte, uint32, error) {
	e := t.engine
	if initial != nil && len(initial) != t.size {
		return nil, 0, fmt.Errorf("timer: payload length %d, want %d: %w",
			len(initial), t.size, api.ErrInvalidArgument)
	}
	idx, err := e.allocSlot()
	if err != nil {
		return nil, 0, err
	}
	buf := make([]byte, t.size)
	copy(buf, initial)

	s := &e.slots[idx]
	s.seq = uint32(s.gen)<<indexBits | (idx + 1)
	s.deadline = e.clock().Add(t.timeout)
	s.owner = t
	s.buf = buf
	s.elem = t.order.PushBack(idx)
	t.live++
	e.byAddr[&buf[0]] = idx
	return buf, s.seq, nil
}
