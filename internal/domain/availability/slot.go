package availability

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStep is the grid granularity used when none is configured.
const DefaultStep = 15 * time.Minute

// Slot is a derived, never-persisted candidate start for one staff member.
type Slot struct {
	Start       time.Time
	StaffID     uuid.UUID
	DurationMin int
	Available   bool
}

func (s Slot) End() time.Time {
	return s.Start.Add(time.Duration(s.DurationMin) * time.Minute)
}

func CountAvailable(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}
