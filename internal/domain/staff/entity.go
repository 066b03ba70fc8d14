package staff

import (
	"errors"
	"strings"

	"booking-engine/internal/domain/calendar"

	"github.com/google/uuid"
)

var ErrNoLocales = errors.New("staff must speak at least one locale")

type Staff struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	name       string
	locales    []string
	active     bool
	serviceIDs map[uuid.UUID]struct{}
	hours      *calendar.WeekSchedule
}

// NewStaff builds a staff member. An empty serviceIDs list means the member
// performs every service; nil hours means tenant hours apply.
func NewStaff(
	id, tenantID uuid.UUID,
	name string,
	locales []string,
	active bool,
	serviceIDs []uuid.UUID,
	hours *calendar.WeekSchedule,
) (*Staff, error) {
	normalized := make([]string, 0, len(locales))
	for _, l := range locales {
		if l = strings.TrimSpace(l); l != "" {
			normalized = append(normalized, l)
		}
	}
	if len(normalized) == 0 {
		return nil, ErrNoLocales
	}

	set := make(map[uuid.UUID]struct{}, len(serviceIDs))
	for _, sid := range serviceIDs {
		set[sid] = struct{}{}
	}

	return &Staff{
		id:         id,
		tenantID:   tenantID,
		name:       strings.TrimSpace(name),
		locales:    normalized,
		active:     active,
		serviceIDs: set,
		hours:      hours,
	}, nil
}

func (s *Staff) ID() uuid.UUID       { return s.id }
func (s *Staff) TenantID() uuid.UUID { return s.tenantID }
func (s *Staff) Name() string        { return s.name }
func (s *Staff) IsActive() bool      { return s.active }

func (s *Staff) Locales() []string {
	out := make([]string, len(s.locales))
	copy(out, s.locales)
	return out
}

func (s *Staff) ServiceIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.serviceIDs))
	for id := range s.serviceIDs {
		out = append(out, id)
	}
	return out
}

// Performs reports whether the member can deliver every listed service.
func (s *Staff) Performs(serviceIDs ...uuid.UUID) bool {
	if len(s.serviceIDs) == 0 {
		return true
	}
	for _, id := range serviceIDs {
		if _, ok := s.serviceIDs[id]; !ok {
			return false
		}
	}
	return true
}

// Schedule returns the member's own hours, falling back to the tenant's.
func (s *Staff) Schedule(tenant calendar.WeekSchedule) calendar.WeekSchedule {
	if s.hours != nil {
		return *s.hours
	}
	return tenant
}

func (s *Staff) Hours() *calendar.WeekSchedule {
	return s.hours
}
