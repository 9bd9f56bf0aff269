package watch

import "github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"

// NotifiedSet remembers which outages already produced a start warning so a
// repeat poll inside the same window stays silent. It lives for the process
// lifetime only: a restart resets deduplication, so an operator who restarts
// the daemon gets told again rather than never.
type NotifiedSet map[model.OutageKey]struct{}

func NewNotifiedSet() NotifiedSet {
	return make(NotifiedSet)
}

// Has reports whether the outage was already warned about.
func (s NotifiedSet) Has(key model.OutageKey) bool {
	_, ok := s[key]
	return ok
}

// Add marks the outage as warned about.
func (s NotifiedSet) Add(key model.OutageKey) {
	s[key] = struct{}{}
}

// Clear forgets everything, re-arming notifications for outages already
// seen. Called when the user changes monitoring settings.
func (s NotifiedSet) Clear() {
	for k := range s {
		delete(s, k)
	}
}

func (s NotifiedSet) Len() int {
	return len(s)
}
