package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidClockTime = errors.New("invalid clock time (expected HH:MM)")
	ErrInvalidDayHours  = errors.New("opening time must be before closing time")
	ErrUnknownWeekday   = errors.New("unknown weekday key")
)

const minutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day expressed in minutes after midnight.
// 24:00 is allowed as a closing time.
type ClockTime int

func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || minute < 0 || minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, ErrInvalidClockTime
	}
	return ClockTime(hour*60 + minute), nil
}

func ParseClockTime(s string) (ClockTime, error) {
	var h, m int
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidClockTime
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, ErrInvalidClockTime
	}
	return NewClockTime(h, m)
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On resolves the clock time to an absolute instant on the calendar date of
// day, in loc.
func (c ClockTime) On(day time.Time, loc *time.Location) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, c.Hour(), c.Minute(), 0, 0, loc)
}

// DayHours is the opening window of a single weekday.
type DayHours struct {
	Open  ClockTime
	Close ClockTime
}

func NewDayHours(open, close ClockTime) (DayHours, error) {
	if open >= close || close > minutesPerDay {
		return DayHours{}, ErrInvalidDayHours
	}
	return DayHours{Open: open, Close: close}, nil
}

func ParseDayHours(open, close string) (DayHours, error) {
	o, err := ParseClockTime(open)
	if err != nil {
		return DayHours{}, err
	}
	c, err := ParseClockTime(close)
	if err != nil {
		return DayHours{}, err
	}
	return NewDayHours(o, c)
}

func (h DayHours) Span() time.Duration {
	return time.Duration(h.Close-h.Open) * time.Minute
}

// Window returns the absolute opening interval for the given date.
func (h DayHours) Window(day time.Time, loc *time.Location) Interval {
	return Interval{Start: h.Open.On(day, loc), End: h.Close.On(day, loc)}
}

// WeekSchedule holds opening hours indexed by time.Weekday. A nil entry means
// the day is closed.
type WeekSchedule [7]*DayHours

func (w WeekSchedule) For(day time.Weekday) (DayHours, bool) {
	h := w[day]
	if h == nil {
		return DayHours{}, false
	}
	return *h, true
}

func (w *WeekSchedule) Set(day time.Weekday, hours DayHours) {
	h := hours
	w[day] = &h
}

func (w *WeekSchedule) Close(day time.Weekday) {
	w[day] = nil
}

func (w WeekSchedule) IsClosedAllWeek() bool {
	for _, h := range w {
		if h != nil {
			return false
		}
	}
	return true
}

var weekdayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

type dayHoursJSON struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// MarshalJSON encodes open days only, keyed by lowercase weekday abbreviation:
// {"mon":{"open":"09:00","close":"17:00"}}.
func (w WeekSchedule) MarshalJSON() ([]byte, error) {
	out := make(map[string]dayHoursJSON, 7)
	for i, h := range w {
		if h == nil {
			continue
		}
		out[weekdayKeys[i]] = dayHoursJSON{Open: h.Open.String(), Close: h.Close.String()}
	}
	return json.Marshal(out)
}

func (w *WeekSchedule) UnmarshalJSON(data []byte) error {
	var raw map[string]dayHoursJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var parsed WeekSchedule
	for key, v := range raw {
		day, ok := weekdayFromKey(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownWeekday, key)
		}
		h, err := ParseDayHours(v.Open, v.Close)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		parsed.Set(day, h)
	}
	*w = parsed
	return nil
}

func weekdayFromKey(key string) (time.Weekday, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i, k := range weekdayKeys {
		if k == key {
			return time.Weekday(i), true
		}
	}
	return 0, false
}
