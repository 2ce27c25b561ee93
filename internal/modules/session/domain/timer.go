package domain

import "time"

// RemainingSeconds computes the countdown shown between calls. Pure over
// the session fields and the caller-supplied now, so jumbotron displays
// can poll it many times a second without coordination and tests can
// feed a fixed clock.
//
// Paused sessions return the frozen snapshot. A session whose countdown
// never started shows the full gap. Otherwise the result decreases
// monotonically to zero and never goes negative.
func RemainingSeconds(s *Session, now time.Time) int {
	if s.PausedAt != nil {
		if s.PausedRemainingSeconds == nil || *s.PausedRemainingSeconds < 0 {
			return 0
		}
		return *s.PausedRemainingSeconds
	}

	if s.CountdownStartedAt == nil {
		return s.TargetGapSeconds
	}

	elapsed := int(now.Sub(*s.CountdownStartedAt) / time.Second)
	remaining := s.TargetGapSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
