package catalog

import "time"

// SetClock replaces the time source of a mutation service.
func SetClock(s *MutationService, now func() time.Time) {
	s.now = now
}
