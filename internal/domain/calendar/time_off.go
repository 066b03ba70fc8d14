package calendar

import (
	"time"

	"github.com/google/uuid"
)

// TimeOff is a staff absence. It is owned by the staff directory and only
// read here.
type TimeOff struct {
	ID       uuid.UUID
	StaffID  uuid.UUID
	Interval Interval
	Reason   string
}

func NewTimeOff(id, staffID uuid.UUID, start, end time.Time, reason string) (TimeOff, error) {
	iv, err := NewInterval(start, end)
	if err != nil {
		return TimeOff{}, err
	}
	return TimeOff{ID: id, StaffID: staffID, Interval: iv, Reason: reason}, nil
}

// DayBounds returns [00:00, next 00:00) for the calendar date of day in loc.
func DayBounds(day time.Time, loc *time.Location) Interval {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
