// Package api
// Author: momentics <momentics@gmail.com>
//
// Shared capability types for the udpev runtime: datagram, cron, expiry
// and loop callbacks, the pluggable log sink, and the common error
// taxonomy used by every package in the module.
//
// The runtime is single-threaded by design: every callback declared here
// runs synchronously on the event loop's goroutine and must return before
// the loop resumes waiting.

package api
