//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/domain/service"
	"booking-engine/internal/domain/staff"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Weekdays returns Monday to Friday open from open to close.
func Weekdays(open, close string) calendar.WeekSchedule {
	h, err := calendar.ParseDayHours(open, close)
	if err != nil {
		panic(err)
	}
	var w calendar.WeekSchedule
	for d := time.Monday; d <= time.Friday; d++ {
		w.Set(d, h)
	}
	return w
}

type TenantBuilder struct {
	TenantID      uuid.UUID
	Hours         calendar.WeekSchedule
	BufferMinutes int
	Timezone      string
	AutoConfirm   bool
}

func NewTenantBuilder() *TenantBuilder {
	return &TenantBuilder{
		TenantID: uuid.New(),
		Hours:    Weekdays("09:00", "17:00"),
		Timezone: "UTC",
	}
}

func (b *TenantBuilder) With(mutate func(*TenantBuilder)) *TenantBuilder {
	mutate(b)
	return b
}

func (b *TenantBuilder) Build() shared.TenantSettings {
	return shared.TenantSettings{
		TenantID:      b.TenantID,
		Hours:         b.Hours,
		BufferMinutes: b.BufferMinutes,
		Timezone:      b.Timezone,
		AutoConfirm:   b.AutoConfirm,
	}
}

type StaffBuilder struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	Locales    []string
	Active     bool
	ServiceIDs []uuid.UUID
	Hours      *calendar.WeekSchedule
}

func NewStaffBuilder(tenantID uuid.UUID) *StaffBuilder {
	return &StaffBuilder{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     "Alice",
		Locales:  []string{"en"},
		Active:   true,
	}
}

func (b *StaffBuilder) With(mutate func(*StaffBuilder)) *StaffBuilder {
	mutate(b)
	return b
}

func (b *StaffBuilder) Build() *staff.Staff {
	s, err := staff.NewStaff(b.ID, b.TenantID, b.Name, b.Locales, b.Active, b.ServiceIDs, b.Hours)
	if err != nil {
		panic(err)
	}
	return s
}

func NewService(tenantID uuid.UUID, code string, durationMin int) *service.Service {
	s, err := service.NewService(uuid.New(), tenantID, code, code, durationMin, true)
	if err != nil {
		panic(err)
	}
	return s
}

func NewInactiveService(tenantID uuid.UUID, code string, durationMin int) *service.Service {
	s, err := service.NewService(uuid.New(), tenantID, code, code, durationMin, false)
	if err != nil {
		panic(err)
	}
	return s
}
