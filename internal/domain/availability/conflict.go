package availability

import (
	"sort"
	"time"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/domain/calendar"

	"github.com/google/uuid"
)

// BlockingSet is the merged, buffer-expanded union of a staff member's
// time-off and occupying appointments.
//
// With a positive buffer the trailing edge of every blocked range is
// inclusive: a candidate may not start exactly when the padding ends.
type BlockingSet struct {
	merged []calendar.Interval
	buffer time.Duration
}

// NewBlockingSet drops canceled and completed appointments and any whose id is
// listed in exclude, expands the rest (and all time-off) by buffer, and merges.
func NewBlockingSet(
	timeOff []calendar.TimeOff,
	appointments []*appointment.Appointment,
	buffer time.Duration,
	exclude ...uuid.UUID,
) *BlockingSet {
	if buffer < 0 {
		buffer = 0
	}

	skip := make(map[uuid.UUID]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	raw := make([]calendar.Interval, 0, len(timeOff)+len(appointments))
	for _, off := range timeOff {
		raw = append(raw, off.Interval.Expand(buffer))
	}
	for _, a := range appointments {
		if a == nil || !a.IsOccupying() {
			continue
		}
		if _, ok := skip[a.ID()]; ok {
			continue
		}
		raw = append(raw, a.Interval().Expand(buffer))
	}

	return &BlockingSet{merged: calendar.Merge(raw), buffer: buffer}
}

// Intervals returns the merged blocked ranges in ascending order.
func (b *BlockingSet) Intervals() []calendar.Interval {
	out := make([]calendar.Interval, len(b.merged))
	copy(out, b.merged)
	return out
}

func (b *BlockingSet) Buffer() time.Duration {
	return b.buffer
}

// behind reports whether blocked ends early enough that a candidate starting
// at t can never hit it.
func (b *BlockingSet) behind(blocked calendar.Interval, t time.Time) bool {
	if b.buffer > 0 {
		return blocked.End.Before(t)
	}
	return !blocked.End.After(t)
}

func (b *BlockingSet) hits(blocked, candidate calendar.Interval) bool {
	if blocked.Overlaps(candidate) {
		return true
	}
	return b.buffer > 0 && candidate.Start.Equal(blocked.End)
}

// Conflicts is the single predicate shared by availability and commit paths.
// candidate conflicts when it overlaps a blocked range or, with a positive
// buffer, starts exactly where a padded range ends (appointment end + buffer).
func (b *BlockingSet) Conflicts(candidate calendar.Interval) bool {
	i := sort.Search(len(b.merged), func(i int) bool {
		return !b.behind(b.merged[i], candidate.Start)
	})
	return i < len(b.merged) && b.hits(b.merged[i], candidate)
}

// Mark flags each grid start for one staff member. grid must be ascending;
// the sweep walks grid and the merged set together.
func (b *BlockingSet) Mark(grid []time.Time, staffID uuid.UUID, durationMin int) []Slot {
	d := time.Duration(durationMin) * time.Minute
	slots := make([]Slot, len(grid))

	j := 0
	for i, t := range grid {
		for j < len(b.merged) && b.behind(b.merged[j], t) {
			j++
		}
		candidate := calendar.IntervalOf(t, d)
		slots[i] = Slot{
			Start:       t,
			StaffID:     staffID,
			DurationMin: durationMin,
			Available:   j >= len(b.merged) || !b.hits(b.merged[j], candidate),
		}
	}
	return slots
}
