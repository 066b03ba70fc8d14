package shared

import (
	"time"

	"booking-engine/internal/domain/calendar"

	"github.com/google/uuid"
)

type TenantSettings struct {
	TenantID      uuid.UUID
	Hours         calendar.WeekSchedule
	BufferMinutes int
	Timezone      string
	AutoConfirm   bool
}

func (s *TenantSettings) Buffer() time.Duration {
	if s.BufferMinutes <= 0 {
		return 0
	}
	return time.Duration(s.BufferMinutes) * time.Minute
}

// Location falls back to fallback when the stored zone is empty or unknown.
func (s *TenantSettings) Location(fallback *time.Location) *time.Location {
	if s.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
