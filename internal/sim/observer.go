package sim

import "submarine-sim/internal/telemetry"

const maxRecentEvents = 200

// RecentEvents returns up to n of the latest event rows, oldest first. n <= 0
// returns everything kept.
func (s *Simulator) RecentEvents(n int) []telemetry.EventRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.recent
	if n > 0 && len(src) > n {
		src = src[len(src)-n:]
	}
	events := make([]telemetry.EventRow, len(src))
	copy(events, src)
	return events
}
