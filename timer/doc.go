// Package timer
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Timer & session engine: fixed-size, deadline-bearing session records
// grouped under independently configured timers, indexed by a
// process-wide non-zero 32-bit sequence.
//
// Sessions live in a slot arena shared by all timers of one Engine. A
// sequence encodes slot index plus a per-slot generation, so a stale
// sequence after delete or expiry misses by generation check instead of
// resolving to recycled storage. Reverse lookup from a payload to its
// sequence or owning timer is keyed by the payload's backing address.
//
// The engine is owned by a single event loop goroutine and performs no
// locking; it is not safe for concurrent use.

package timer
