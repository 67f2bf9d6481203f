package scheduling

import (
	"github.com/google/uuid"

	"chairtime/backend/internal/domain"
)

// findConflict returns the earliest-starting active commitment that overlaps
// proposed, or nil. excludeID skips an appointment being rescheduled against
// its own prior slot. Read-only; safe to call repeatedly.
func findConflict(proposed domain.TimeInterval, commitments []domain.Appointment, excludeID uuid.UUID) *domain.Appointment {
	var blocking *domain.Appointment
	for i := range commitments {
		c := &commitments[i]
		if c.ID == excludeID || !c.Status.IsActive() {
			continue
		}
		if !proposed.Overlaps(c.Interval()) {
			continue
		}
		if blocking == nil || c.StartTime.Before(blocking.StartTime) {
			blocking = c
		}
	}
	return blocking
}
