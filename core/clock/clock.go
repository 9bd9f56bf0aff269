package clock

import "time"

// Clock abstracts the current time so temporal logic can be tested against
// fixed instants.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }
