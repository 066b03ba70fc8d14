//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/appointment"
	reqdto "booking-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

type AppointmentBuilder struct {
	TenantID     uuid.UUID
	StaffID      uuid.UUID
	ClientName   string
	ClientPhone  string
	ClientLocale string
	Services     []appointment.ServiceLine
	Start        time.Time
	Status       appointment.Status
	Now          time.Time
}

func NewAppointmentBuilder() *AppointmentBuilder {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	return &AppointmentBuilder{
		TenantID:     uuid.New(),
		StaffID:      uuid.New(),
		ClientName:   "Jane Doe",
		ClientPhone:  "+1-555-0100",
		ClientLocale: "en",
		Services: []appointment.ServiceLine{
			{ServiceID: uuid.New(), Code: "cut", DurationMin: 30},
			{ServiceID: uuid.New(), Code: "color", DurationMin: 60},
		},
		Start:  time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
		Status: appointment.StatusPending,
		Now:    now,
	}
}

func (b *AppointmentBuilder) With(mutate func(*AppointmentBuilder)) *AppointmentBuilder {
	mutate(b)
	return b
}

func (b *AppointmentBuilder) Client() appointment.Client {
	return appointment.Client{Name: b.ClientName, Phone: b.ClientPhone, Locale: b.ClientLocale}
}

// Build methods
func (b *AppointmentBuilder) BuildDomain() (*appointment.Appointment, error) {
	return appointment.NewAppointment(b.TenantID, b.StaffID, b.Client(), b.Services, b.Start, b.Status, b.Now)
}

// MustBuild is BuildDomain for fixtures that are known to be valid.
func (b *AppointmentBuilder) MustBuild() *appointment.Appointment {
	a, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return a
}

func (b *AppointmentBuilder) BuildCreateRequestDTO() reqdto.CreateAppointmentRequest {
	refs := make([]string, len(b.Services))
	for i, s := range b.Services {
		refs[i] = s.Code
	}
	staffID := b.StaffID
	return reqdto.CreateAppointmentRequest{
		ClientName:   b.ClientName,
		ClientPhone:  b.ClientPhone,
		ClientLocale: b.ClientLocale,
		Services:     refs,
		Date:         b.Start.Format("2006-01-02"),
		Time:         b.Start.Format("15:04"),
		StaffID:      &staffID,
	}
}
