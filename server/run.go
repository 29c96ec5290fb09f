// File: server/run.go
// Author: momentics <momentics@gmail.com>
//
// The combined event loop: wait bounded by the earliest deadline, then
// expiry sweep, cron firing, datagram dispatch, stop check. The order
// is fixed; when a session deadline and a cron due time fall in the
// same wait window, sessions expire first.

package server

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/momentics/udpev/api"
	"github.com/momentics/udpev/internal/transport"
	"github.com/momentics/udpev/reactor"
)

// atomicFlag is a boolean settable from any goroutine.
type atomicFlag struct{ v int32 }

func (f *atomicFlag) set()        { atomic.StoreInt32(&f.v, 1) }
func (f *atomicFlag) clear()      { atomic.StoreInt32(&f.v, 0) }
func (f *atomicFlag) isSet() bool { return atomic.LoadInt32(&f.v) == 1 }

func (f *atomicFlag) trySet() bool {
	return atomic.CompareAndSwapInt32(&f.v, 0, 1)
}

// atomicTime holds an absolute deadline in nanoseconds, zero = unset.
type atomicTime struct{ ns int64 }

func (t *atomicTime) store(at time.Time) { atomic.StoreInt64(&t.ns, at.UnixNano()) }
func (t *atomicTime) clear()             { atomic.StoreInt64(&t.ns, 0) }
func (t *atomicTime) load() (time.Time, bool) {
	ns := atomic.LoadInt64(&t.ns)
	if ns == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ns), true
}

// Run drives the loop until Exit, an ExitLater deadline, or a reactor
// failure. loop, when non-nil, is invoked once after each dispatched
// datagram. Nested Run is rejected; a fresh Run after a prior stop is
// allowed and starts with cleared stop state.
func (s *Server) Run(loop api.LoopFunc) error {
	if !s.running.trySet() {
		return api.ErrLoopRunning
	}
	defer func() {
		for s.ready.Length() > 0 {
			s.ready.Remove() // stale readiness must not leak into a later Run
		}
		s.exitReq.clear()
		s.exitAtNs.clear()
		s.running.clear()
	}()

	events := make([]reactor.Event, s.cfg.maxEvents)
	for {
		n, err := s.rct.Wait(events, s.nextWait())
		if err != nil {
			s.logf(api.LogError, "reactor wait: %v", err)
			return fmt.Errorf("run: %w", err)
		}

		s.engine.Sweep(time.Now())
		s.crontab.Fire(time.Now())

		for i := 0; i < n; i++ {
			if events[i].FD == s.wakeR {
				transport.Drain(s.wakeR)
				continue
			}
			s.ready.Add(events[i])
		}
		// One datagram per queued event. A socket that delivered is
		// re-queued for the rest of its backlog; whatever exceeds the
		// per-iteration budget stays queued, so expiry and cron keep
		// their schedule through a burst.
		for budget := s.cfg.maxEvents; budget > 0 && s.ready.Length() > 0; budget-- {
			ev := s.ready.Remove().(reactor.Event)
			if s.dispatch(ev, loop) {
				s.ready.Add(ev)
			}
		}

		if s.exitReq.isSet() {
			return nil
		}
		if at, ok := s.exitAtNs.load(); ok && !time.Now().Before(at) {
			return nil
		}
	}
}

// Exit requests an immediate stop. Safe from any goroutine, including
// signal handlers; takes effect at the end of the current iteration.
func (s *Server) Exit() {
	s.exitReq.set()
	transport.WakeWrite(s.wakeW)
}

// ExitLater stops the loop once d has elapsed; until then endpoints,
// timers and cron tasks keep running. May be called before Run.
func (s *Server) ExitLater(d time.Duration) {
	s.exitAtNs.store(time.Now().Add(d))
	transport.WakeWrite(s.wakeW)
}

// nextWait computes the wait bound: the smallest distance to a session
// deadline, a cron due time or the stop deadline. Negative means block
// until socket readiness. Carried-over ready events force a poll.
func (s *Server) nextWait() time.Duration {
	if s.ready.Length() > 0 {
		return 0
	}
	now := time.Now()
	wait := time.Duration(-1)
	consider := func(at time.Time) {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		if wait < 0 || d < wait {
			wait = d
		}
	}
	if at, ok := s.engine.NextDeadline(); ok {
		consider(at)
	}
	if at, ok := s.crontab.NextDue(); ok {
		consider(at)
	}
	if at, ok := s.exitAtNs.load(); ok {
		consider(at)
	}
	return wait
}

// dispatch reads one datagram for a ready endpoint and runs its
// handler, reporting whether a datagram was delivered. Endpoints
// closed earlier in the same iteration are skipped by the name/fd
// check. Handler failures are non-fatal.
func (s *Server) dispatch(ev reactor.Event, loop api.LoopFunc) bool {
	ep, ok := s.eps[ev.Name]
	if !ok || ep.fd != ev.FD {
		return false
	}
	n, addr, err := transport.RecvFrom(ep.fd, s.readBuf)
	if err != nil {
		s.logf(api.LogWarn, "endpoint %d recv: %v", ep.name, err)
		return false
	}
	if addr == nil {
		return false // readiness raced with nothing queued
	}
	pkt := &api.Packet{Name: ep.name, Addr: addr, Payload: s.readBuf[:n]}
	if err := ep.handler(pkt); err != nil {
		s.logf(api.LogWarn, "endpoint %d handler: %v", ep.name, err)
	}
	if loop != nil {
		loop()
	}
	return true
}
