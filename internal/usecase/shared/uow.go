package shared

import (
	"context"
	"time"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/domain/service"
	"booking-engine/internal/domain/staff"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// WithinStaffLock: one transaction serialized per staff member. Locks are
	// taken in a stable order before fn runs and held until commit.
	WithinStaffLock(ctx context.Context, staffIDs []uuid.UUID, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Appointments() AppointmentRepository
	Calendar() CalendarReads
	Events() EventRepository
}

// ReferenceReads covers tenant configuration, the staff directory and the
// service catalog. None of it is owned by the booking engine.
type ReferenceReads interface {
	TenantSettings(ctx context.Context, tenantID uuid.UUID) (*TenantSettings, error)
	ActiveStaff(ctx context.Context, tenantID uuid.UUID) ([]*staff.Staff, error)
	ResolveServices(ctx context.Context, tenantID uuid.UUID, refs []service.Ref) ([]*service.Service, error)
}

type freshReadKey struct{}

// WithFreshReads marks ctx so ReferenceReads implementations bypass caches.
// Commit paths use it to validate against the current staff directory.
func WithFreshReads(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadKey{}, true)
}

func IsFreshRead(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshReadKey{}).(bool)
	return fresh
}

// CalendarReads returns everything that can block a staff member's time.
type CalendarReads interface {
	TimeOff(ctx context.Context, staffID uuid.UUID, window calendar.Interval) ([]calendar.TimeOff, error)
	OccupyingAppointments(ctx context.Context, staffID uuid.UUID, window calendar.Interval) ([]*appointment.Appointment, error)
	AppointmentByID(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error)
}

type AppointmentRepository interface {
	Insert(ctx context.Context, a *appointment.Appointment) error
	UpdateInterval(ctx context.Context, a *appointment.Appointment) error
	UpdateStatus(ctx context.Context, a *appointment.Appointment) error
	// FindForUpdate reads the row and holds it until the transaction ends.
	FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error)
}

type EventRepository interface {
	Append(ctx context.Context, evt AppointmentEvent) error
}

type AppointmentEvent struct {
	AppointmentID uuid.UUID
	TenantID      uuid.UUID
	Kind          string
	Payload       []byte
	OccurredAt    time.Time
}

const (
	EventAppointmentCreated     = "appointment.created"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventAppointmentCanceled    = "appointment.canceled"
	EventAppointmentConfirmed   = "appointment.confirmed"
	EventAppointmentCompleted   = "appointment.completed"
)
