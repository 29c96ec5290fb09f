// File: server/options.go
// Package server defines functional options for the Server runtime.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import "github.com/momentics/udpev/api"

// config holds parameters fixed at construction time.
type config struct {
	maxEvents int // wait batch size and per-iteration dispatch budget
	sink      api.LogSink
}

func defaultConfig() config {
	return config{
		maxEvents: 64,
	}
}

// Option customizes server initialization.
type Option func(*config)

// WithLogSink installs the diagnostic sink. Without one the runtime
// emits nothing.
func WithLogSink(sink api.LogSink) Option {
	return func(c *config) {
		c.sink = sink
	}
}

// WithMaxEvents overrides how many ready sockets one wait may report
// and how many datagrams one loop iteration may dispatch. A backlog
// beyond the budget is carried to the next iteration.
func WithMaxEvents(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEvents = n
		}
	}
}
