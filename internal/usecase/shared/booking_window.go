package shared

import (
	"strings"
	"time"

	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	defaultHorizonDays = 30
)

// BookingPolicy holds the engine-wide knobs shared by availability queries and
// booking commands.
type BookingPolicy struct {
	HorizonDays     int
	Step            time.Duration
	DefaultLocation *time.Location
}

func NewBookingPolicy(cfg config.Config) BookingPolicy {
	horizon := cfg.Booking.HorizonDays
	if horizon <= 0 {
		horizon = defaultHorizonDays
	}
	return BookingPolicy{
		HorizonDays:     horizon,
		Step:            cfg.Booking.SlotStep(),
		DefaultLocation: cfg.Booking.Location(),
	}
}

// ParseDate reads a calendar date as midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, errs.Mark(err, errs.ErrInvalidDate)
	}
	return d, nil
}

// ParseStart combines a date and a wall-clock time in loc.
func ParseStart(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	ct, err := calendar.ParseClockTime(strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, errs.Mark(err, errs.ErrInvalidDate)
	}
	return ct.On(day, loc), nil
}

// CheckDate enforces "not before today" and "not beyond the horizon", both
// measured in whole calendar days in loc.
func (p BookingPolicy) CheckDate(day, now time.Time, loc *time.Location) error {
	days := civilDaysBetween(now.In(loc), day.In(loc))
	if days < 0 {
		return errs.ErrPastDate
	}
	if days > p.HorizonDays {
		return errs.ErrFarFuture
	}
	return nil
}

func civilDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// DedupeIDs keeps first occurrences.
func DedupeIDs[T comparable](ids []T) []T {
	seen := make(map[T]struct{}, len(ids))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
