//go:build unit

package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	"booking-engine/internal/domain/calendar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2025, 6, 2, h, m, 0, 0, time.UTC)
}

func TestInterval(t *testing.T) {
	t.Run("constructor rejects empty and inverted intervals", func(t *testing.T) {
		_, err := calendar.NewInterval(at(10, 0), at(10, 0))
		assert.ErrorIs(t, err, calendar.ErrInvalidInterval)

		_, err = calendar.NewInterval(at(11, 0), at(10, 0))
		assert.ErrorIs(t, err, calendar.ErrInvalidInterval)

		iv, err := calendar.NewInterval(at(10, 0), at(11, 0))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, iv.Duration())
	})

	t.Run("overlap is half-open", func(t *testing.T) {
		base := calendar.Interval{Start: at(14, 0), End: at(15, 0)}

		cases := []struct {
			name  string
			other calendar.Interval
			want  bool
		}{
			{"touching before", calendar.Interval{Start: at(13, 0), End: at(14, 0)}, false},
			{"touching after", calendar.Interval{Start: at(15, 0), End: at(16, 0)}, false},
			{"inside", calendar.Interval{Start: at(14, 15), End: at(14, 45)}, true},
			{"covering", calendar.Interval{Start: at(13, 0), End: at(16, 0)}, true},
			{"partial start", calendar.Interval{Start: at(13, 30), End: at(14, 1)}, true},
			{"partial end", calendar.Interval{Start: at(14, 59), End: at(15, 30)}, true},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, base.Overlaps(tc.other))
				assert.Equal(t, tc.want, tc.other.Overlaps(base))
			})
		}
	})

	t.Run("contains excludes the end instant", func(t *testing.T) {
		iv := calendar.Interval{Start: at(9, 0), End: at(10, 0)}
		assert.True(t, iv.Contains(at(9, 0)))
		assert.True(t, iv.Contains(at(9, 59)))
		assert.False(t, iv.Contains(at(10, 0)))
		assert.False(t, iv.Contains(at(8, 59)))
	})

	t.Run("expand grows both ends", func(t *testing.T) {
		iv := calendar.Interval{Start: at(14, 0), End: at(15, 0)}
		got := iv.Expand(15 * time.Minute)
		assert.Equal(t, at(13, 45), got.Start)
		assert.Equal(t, at(15, 15), got.End)
		assert.Equal(t, iv, iv.Expand(0))
		assert.Equal(t, iv, iv.Expand(-time.Minute))
	})
}

func TestMerge(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, calendar.Merge(nil))
	})

	t.Run("unsorted overlapping and touching inputs collapse", func(t *testing.T) {
		in := []calendar.Interval{
			{Start: at(15, 0), End: at(16, 0)},
			{Start: at(9, 0), End: at(10, 0)},
			{Start: at(9, 30), End: at(11, 0)},
			{Start: at(11, 0), End: at(11, 30)},
			{Start: at(15, 15), End: at(15, 45)},
		}
		got := calendar.Merge(in)
		assert.Equal(t, []calendar.Interval{
			{Start: at(9, 0), End: at(11, 30)},
			{Start: at(15, 0), End: at(16, 0)},
		}, got)
		assert.Equal(t, at(15, 0), in[0].Start, "input must not be reordered")
	})

	t.Run("degenerate intervals are dropped", func(t *testing.T) {
		got := calendar.Merge([]calendar.Interval{{Start: at(9, 0), End: at(9, 0)}})
		assert.Empty(t, got)
	})
}

func TestClockTimeAndSchedule(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		ct, err := calendar.ParseClockTime("09:30")
		require.NoError(t, err)
		assert.Equal(t, 9, ct.Hour())
		assert.Equal(t, 30, ct.Minute())
		assert.Equal(t, "09:30", ct.String())

		end, err := calendar.ParseClockTime("24:00")
		require.NoError(t, err)
		assert.Equal(t, calendar.ClockTime(24*60), end)

		for _, bad := range []string{"", "9:30", "25:00", "24:01", "12:60", "ab:cd", "12-30"} {
			_, err := calendar.ParseClockTime(bad)
			assert.ErrorIs(t, err, calendar.ErrInvalidClockTime, bad)
		}
	})

	t.Run("day hours require open before close", func(t *testing.T) {
		_, err := calendar.ParseDayHours("18:00", "09:00")
		assert.ErrorIs(t, err, calendar.ErrInvalidDayHours)
		_, err = calendar.ParseDayHours("09:00", "09:00")
		assert.ErrorIs(t, err, calendar.ErrInvalidDayHours)

		h, err := calendar.ParseDayHours("09:00", "18:00")
		require.NoError(t, err)
		assert.Equal(t, 9*time.Hour, h.Span())
	})

	t.Run("window resolves in the given location", func(t *testing.T) {
		loc, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)

		h, err := calendar.ParseDayHours("10:00", "16:00")
		require.NoError(t, err)

		day := time.Date(2025, 6, 7, 0, 0, 0, 0, loc)
		w := h.Window(day, loc)
		assert.Equal(t, time.Date(2025, 6, 7, 10, 0, 0, 0, loc), w.Start)
		assert.Equal(t, time.Date(2025, 6, 7, 16, 0, 0, 0, loc), w.End)
	})

	t.Run("week schedule lookups", func(t *testing.T) {
		var w calendar.WeekSchedule
		assert.True(t, w.IsClosedAllWeek())

		h, err := calendar.ParseDayHours("09:00", "18:00")
		require.NoError(t, err)
		w.Set(time.Monday, h)

		got, ok := w.For(time.Monday)
		assert.True(t, ok)
		assert.Equal(t, h, got)

		_, ok = w.For(time.Sunday)
		assert.False(t, ok)

		w.Close(time.Monday)
		assert.True(t, w.IsClosedAllWeek())
	})
}

func TestTimeOff(t *testing.T) {
	_, err := calendar.NewTimeOff(uuid.New(), uuid.New(), at(12, 0), at(11, 0), "lunch")
	assert.ErrorIs(t, err, calendar.ErrInvalidInterval)

	bounds := calendar.DayBounds(at(13, 37), time.UTC)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), bounds.Start)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), bounds.End)
}

func TestWeekSchedule_JSON(t *testing.T) {
	var w calendar.WeekSchedule
	h, err := calendar.ParseDayHours("09:00", "17:30")
	require.NoError(t, err)
	w.Set(time.Monday, h)
	w.Set(time.Saturday, h)

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mon":{"open":"09:00","close":"17:30"},"sat":{"open":"09:00","close":"17:30"}}`, string(data))

	var decoded calendar.WeekSchedule
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, w, decoded)

	_, open := decoded.For(time.Sunday)
	assert.False(t, open)

	err = json.Unmarshal([]byte(`{"funday":{"open":"09:00","close":"10:00"}}`), &decoded)
	assert.ErrorIs(t, err, calendar.ErrUnknownWeekday)

	err = json.Unmarshal([]byte(`{"mon":{"open":"18:00","close":"10:00"}}`), &decoded)
	assert.ErrorIs(t, err, calendar.ErrInvalidDayHours)
}
