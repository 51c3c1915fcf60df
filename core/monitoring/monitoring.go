// Package monitoring forwards errors and degradation notices to the configured
// error tracker. The default implementation discards everything.
package monitoring

import "time"

// Level qualifies a captured message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CaptureMessage(msg string, level Level, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string)       {}
func (NopMonitor) CaptureMessage(string, Level, map[string]string) {}
func (NopMonitor) Recover()                                        {}
func (NopMonitor) Flush(time.Duration)                             {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// Current returns the global monitor.
func Current() Monitor { return current }

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if current != nil {
		current.CaptureException(err, tags)
	}
}

// CaptureMessage records a non-error notice such as a source fallback.
func CaptureMessage(msg string, level Level, tags map[string]string) {
	if current != nil {
		current.CaptureMessage(msg, level, tags)
	}
}

// Recover captures panics in goroutines.
func Recover() {
	if current != nil {
		current.Recover()
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	if current != nil {
		current.Flush(d)
	}
}
