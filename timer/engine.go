// File: timer/engine.go
// Author: momentics <momentics@gmail.com>
//
// Slot arena with generation-checked sequences and address-keyed
// reverse lookup shared by every Timer of one Engine.

package timer

import (
	"container/list"
	"fmt"
	"time"

	"github.com/momentics/udpev/api"
)

// Sequence layout: low 16 bits hold slot index + 1 (never zero), high 16
// bits hold the slot's generation at allocation time.
const (
	indexBits = 16
	indexMask = 1<<indexBits - 1
	maxSlots  = indexMask // one index value is lost to the +1 shift
)

type slot struct {
	seq      uint32 // full sequence while live, 0 when free
	gen      uint16 // bumped on every free
	deadline time.Time
	owner    *Timer
	buf      []byte
	elem     *list.Element // position in owner's live order, nil when free
}

// Engine owns the arena and the set of timers created from it.
type Engine struct {
	clock  func() time.Time
	slots  []slot
	free   []uint32 // recycled slot indexes, LIFO
	byAddr map[*byte]uint32
	timers []*Timer // creation order, drives sweep order
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{
		clock:  time.Now,
		byAddr: make(map[*byte]uint32),
	}
}

// NewTimer creates a timer whose sessions all share one timeout, payload
// size and expiry callback. The parameters are fixed for the timer's
// lifetime.
func (e *Engine) NewTimer(timeout time.Duration, sessionSize int, onExpire api.ExpireFunc) (*Timer, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("timer: timeout %v: %w", timeout, api.ErrInvalidArgument)
	}
	if sessionSize <= 0 {
		return nil, fmt.Errorf("timer: session size %d: %w", sessionSize, api.ErrInvalidArgument)
	}
	t := &Timer{
		engine:   e,
		timeout:  timeout,
		size:     sessionSize,
		onExpire: onExpire,
		order:    list.New(),
	}
	e.timers = append(e.timers, t)
	return t, nil
}

// Get resolves a sequence to its live session payload. Unknown, deleted
// and expired sequences miss.
func (e *Engine) Get(seq uint32) ([]byte, bool) {
	s := e.lookup(seq)
	if s == nil {
		return nil, false
	}
	return s.buf, true
}

// Delete removes the session identified by seq, invalidating its
// sequence and payload address immediately. Deleting an already-gone
// sequence is a no-op.
func (e *Engine) Delete(seq uint32) {
	s := e.lookup(seq)
	if s == nil {
		return
	}
	e.freeSlot(uint32(seq&indexMask) - 1)
}

// SequenceOf reports the sequence of the live session owning payload.
// The payload must be a slice returned by Add.
func (e *Engine) SequenceOf(payload []byte) (uint32, bool) {
	s := e.lookupAddr(payload)
	if s == nil {
		return 0, false
	}
	return s.seq, true
}

// WhichTimer reports the timer owning the live session behind payload.
func (e *Engine) WhichTimer(payload []byte) (*Timer, bool) {
	s := e.lookupAddr(payload)
	if s == nil {
		return nil, false
	}
	return s.owner, true
}

// NextDeadline returns the earliest deadline among all live sessions.
// The second result is false when no session is live.
func (e *Engine) NextDeadline() (time.Time, bool) {
	var next time.Time
	found := false
	for _, t := range e.timers {
		front := t.order.Front()
		if front == nil {
			continue
		}
		// Deadlines within one timer are monotone, the head is earliest.
		d := e.slots[front.Value.(uint32)].deadline
		if !found || d.Before(next) {
			next, found = d, true
		}
	}
	return next, found
}

// Sweep expires every session whose deadline is at or before now and
// fires its timer's expiry callback once per session, after the session
// is already unlinked: a nested Get or Delete on the same sequence
// observes not-found. Order is insertion order within each timer, timers
// in creation order. Returns the number of sessions fired.
func (e *Engine) Sweep(now time.Time) int {
	fired := 0
	for _, t := range e.timers {
		for {
			front := t.order.Front()
			if front == nil {
				break
			}
			idx := front.Value.(uint32)
			s := &e.slots[idx]
			if s.deadline.After(now) {
				break
			}
			buf := s.buf
			e.freeSlot(idx)
			fired++
			if t.onExpire != nil {
				t.onExpire(buf)
			}
		}
	}
	return fired
}

// lookup resolves a sequence to its slot, nil on any mismatch.
func (e *Engine) lookup(seq uint32) *slot {
	low := seq & indexMask
	if low == 0 {
		return nil
	}
	idx := low - 1
	if int(idx) >= len(e.slots) {
		return nil
	}
	s := &e.slots[idx]
	if s.elem == nil || s.seq != seq {
		return nil
	}
	return s
}

func (e *Engine) lookupAddr(payload []byte) *slot {
	if len(payload) == 0 {
		return nil
	}
	idx, ok := e.byAddr[&payload[0]]
	if !ok {
		return nil
	}
	s := &e.slots[idx]
	if s.elem == nil {
		return nil
	}
	return s
}

// allocSlot returns a free slot index, growing the arena on demand.
func (e *Engine) allocSlot() (uint32, error) {
	if n := len(e.free); n > 0 {
		idx := e.free[n-1]
		e.free = e.free[:n-1]
		return idx, nil
	}
	if len(e.slots) >= maxSlots {
		return 0, fmt.Errorf("timer: session table full: %w", api.ErrResourceExhausted)
	}
	e.slots = append(e.slots, slot{})
	return uint32(len(e.slots) - 1), nil
}

// freeSlot unlinks a live slot from its timer, the address index and the
// arena, and bumps the generation so stale sequences miss.
func (e *Engine) freeSlot(idx uint32) {
	s := &e.slots[idx]
	s.owner.order.Remove(s.elem)
	s.owner.live--
	delete(e.byAddr, &s.buf[0])
	s.seq = 0
	s.gen++
	s.owner = nil
	s.buf = nil
	s.elem = nil
	e.free = append(e.free, idx)
}
