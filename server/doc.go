// Package server
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// UDP server runtime: a registry of named endpoints, a datagram
// dispatcher, a cron scheduler and a timer & session engine, all driven
// by one single-threaded event loop. Every iteration the loop waits on
// socket readiness bounded by the earliest pending deadline, then runs
// the timer expiry sweep, due cron tasks and datagram dispatch, in that
// fixed order.
//
// All callbacks execute synchronously on the goroutine that called Run.
// Exit and ExitLater are the only methods safe to call from other
// goroutines (typically a signal handler).

package server
