// File: cron/cron.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Periodic task scheduler. Tasks are ordered by due time in a heap; a
// fired task is rescheduled from its actual fire time, so sustained
// overload causes drift rather than callback storms.
//
// The scheduler is owned by the event loop goroutine and is not safe
// for concurrent use.

package cron

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/momentics/udpev/api"
)

type task struct {
	interval time.Duration
	due      time.Time
	fn       api.CronFunc
}

type taskHeap []*task

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].due.Before(h[j].due) }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)        { *h = append(*h, x.(*task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Scheduler holds the set of periodic tasks.
type Scheduler struct {
	clock func() time.Time
	tasks taskHeap
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{clock: time.Now}
}

// Schedule registers fn to fire every interval, first at now + interval.
func (s *Scheduler) Schedule(interval time.Duration, fn api.CronFunc) error {
	if interval <= 0 {
		return fmt.Errorf("cron: interval %v: %w", interval, api.ErrInvalidArgument)
	}
	if fn == nil {
		return fmt.Errorf("cron: nil callback: %w", api.ErrInvalidArgument)
	}
	heap.Push(&s.tasks, &task{
		interval: interval,
		due:      s.clock().Add(interval),
		fn:       fn,
	})
	return nil
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int { return len(s.tasks) }

// NextDue returns the earliest due time across all tasks; false when no
// task is registered.
func (s *Scheduler) NextDue() (time.Time, bool) {
	if len(s.tasks) == 0 {
		return time.Time{}, false
	}
	return s.tasks[0].due, true
}

// Fire invokes every task due at or before now, reschedules each to
// now + interval, and returns the number fired. A task fires at most
// once per call.
func (s *Scheduler) Fire(now time.Time) int {
	fired := 0
	var done []*task
	for len(s.tasks) > 0 && !s.tasks[0].due.After(now) {
		t := heap.Pop(&s.tasks).(*task)
		t.fn()
		t.due = now.Add(t.interval)
		done = append(done, t)
		fired++
	}
	// Re-push after draining so a task cannot fire twice in one call.
	for _, t := range done {
		heap.Push(&s.tasks, t)
	}
	return fired
}
