package availability

import (
	"time"

	"booking-engine/internal/domain/calendar"
)

// GenerateGrid lists candidate starts anchored at window.Start and advancing
// by step. A start t is kept iff t+duration fits inside the window and t is
// not before notBefore. Starts in the past are dropped, not marked.
func GenerateGrid(window calendar.Interval, duration, step time.Duration, notBefore time.Time) []time.Time {
	if duration <= 0 || step <= 0 || duration > window.Duration() {
		return nil
	}

	last := window.End.Add(-duration)
	grid := make([]time.Time, 0, int(last.Sub(window.Start)/step)+1)
	for t := window.Start; !t.After(last); t = t.Add(step) {
		if t.Before(notBefore) {
			continue
		}
		grid = append(grid, t)
	}
	return grid
}

// DayWindow resolves the opening window of date in loc from a week schedule.
// ok is false when the weekday is closed.
func DayWindow(schedule calendar.WeekSchedule, date time.Time, loc *time.Location) (calendar.Interval, bool) {
	y, m, d := date.Date()
	local := time.Date(y, m, d, 12, 0, 0, 0, loc)
	hours, ok := schedule.For(local.Weekday())
	if !ok {
		return calendar.Interval{}, false
	}
	return hours.Window(local, loc), true
}
