// File: api/log.go
// Author: momentics <momentics@gmail.com>
//
// Pluggable diagnostic sink. The library itself never writes to stdout
// or stderr; with no sink installed it emits nothing.

package api

// LogLevel is the severity of a diagnostic message.
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogWarn
	LogError
)

// String returns the conventional short name for the level.
func (l LogLevel) String() string {
	switch l {
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	}
	return "unknown"
}

// LogSink receives diagnostic messages from the runtime.
type LogSink func(level LogLevel, msg string)
