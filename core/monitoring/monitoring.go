package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CaptureMessage(msg string, tags map[string]string)
	CapturePanic(v any)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CaptureMessage(string, map[string]string)  {}
func (NopMonitor) CapturePanic(any)                          {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if current != nil {
		current.CaptureException(err, tags)
	}
}

// CaptureMessage records a non-error incident, such as a notification
// channel that refused delivery.
func CaptureMessage(msg string, tags map[string]string) {
	if current != nil {
		current.CaptureMessage(msg, tags)
	}
}

// Recover must be deferred directly: recover only observes a panic when
// called by the deferred function itself. The panic is captured with the
// current monitor and re-raised.
func Recover() {
	if v := recover(); v != nil {
		if current != nil {
			current.CapturePanic(v)
		}
		panic(v)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	if current != nil {
		current.Flush(d)
	}
}
