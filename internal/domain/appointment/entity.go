package appointment

import (
	"errors"
	"strings"
	"time"

	"booking-engine/internal/domain/calendar"

	"github.com/google/uuid"
)

var (
	ErrNoServices          = errors.New("appointment requires at least one service")
	ErrDurationMismatch    = errors.New("service durations do not match the appointment interval")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrNotReschedulable    = errors.New("appointment is not reschedulable")
	ErrClientNameRequired  = errors.New("client name is required")
	ErrNonPositiveDuration = errors.New("service duration must be positive")
)

// ServiceLine is one booked service, kept in booking order.
type ServiceLine struct {
	ServiceID   uuid.UUID
	Code        string
	DurationMin int
}

type Client struct {
	ID     *uuid.UUID
	Name   string
	Phone  string
	Locale string
}

type Appointment struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	staffID      uuid.UUID
	client       Client
	services     []ServiceLine
	interval     calendar.Interval
	status       Status
	cancelReason string
	createdAt    time.Time
	updatedAt    time.Time
}

func TotalDuration(lines []ServiceLine) time.Duration {
	var total int
	for _, l := range lines {
		total += l.DurationMin
	}
	return time.Duration(total) * time.Minute
}

func NewAppointment(
	tenantID, staffID uuid.UUID,
	client Client,
	services []ServiceLine,
	start time.Time,
	initial Status,
	now time.Time,
) (*Appointment, error) {
	if len(services) == 0 {
		return nil, ErrNoServices
	}
	for _, l := range services {
		if l.DurationMin <= 0 {
			return nil, ErrNonPositiveDuration
		}
	}
	client.Name = strings.TrimSpace(client.Name)
	if client.Name == "" {
		return nil, ErrClientNameRequired
	}
	if initial != StatusPending && initial != StatusConfirmed {
		return nil, ErrInvalidStatus
	}

	lines := make([]ServiceLine, len(services))
	copy(lines, services)

	return &Appointment{
		id:        uuid.New(),
		tenantID:  tenantID,
		staffID:   staffID,
		client:    client,
		services:  lines,
		interval:  calendar.IntervalOf(start, TotalDuration(lines)),
		status:    initial,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructAppointment(
	id, tenantID, staffID uuid.UUID,
	client Client,
	services []ServiceLine,
	interval calendar.Interval,
	status Status,
	cancelReason string,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:           id,
		tenantID:     tenantID,
		staffID:      staffID,
		client:       client,
		services:     services,
		interval:     interval,
		status:       status,
		cancelReason: cancelReason,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (a *Appointment) transition(next Status, now time.Time) error {
	if !a.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	a.status = next
	a.updatedAt = now
	return nil
}

func (a *Appointment) Confirm(now time.Time) error {
	return a.transition(StatusConfirmed, now)
}

func (a *Appointment) Complete(now time.Time) error {
	return a.transition(StatusCompleted, now)
}

func (a *Appointment) Cancel(reason string, now time.Time) error {
	if err := a.transition(StatusCanceled, now); err != nil {
		return err
	}
	a.cancelReason = strings.TrimSpace(reason)
	return nil
}

// Reschedule moves the appointment to a new start and staff, keeping its
// duration. Conflict checks are the caller's responsibility.
func (a *Appointment) Reschedule(staffID uuid.UUID, start time.Time, now time.Time) error {
	if !a.status.Occupies() {
		return ErrNotReschedulable
	}
	a.staffID = staffID
	a.interval = calendar.IntervalOf(start, a.Duration())
	a.updatedAt = now
	return nil
}

// Validate checks the stored invariants of a reconstructed appointment.
func (a *Appointment) Validate() error {
	if len(a.services) == 0 {
		return ErrNoServices
	}
	if !a.status.IsValid() {
		return ErrInvalidStatus
	}
	if TotalDuration(a.services) != a.interval.Duration() {
		return ErrDurationMismatch
	}
	return nil
}

func (a *Appointment) ID() uuid.UUID { return a.id }
func (a *Appointment) TenantID() uuid.UUID { return a.tenantID }
func (a *Appointment) StaffID() uuid.UUID { return a.staffID }
func (a *Appointment) Client() Client { return a.client }
func (a *Appointment) Interval() calendar.Interval { return a.interval }
func (a *Appointment) Start() time.Time { return a.interval.Start }
func (a *Appointment) End() time.Time { return a.interval.End }
func (a *Appointment) Duration() time.Duration { return a.interval.Duration() }
func (a *Appointment) Status() Status { return a.status }
func (a *Appointment) CancelReason() string { return a.cancelReason }
func (a *Appointment) CreatedAt() time.Time { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time { return a.updatedAt }
func (a *Appointment) IsOccupying() bool { return a.status.Occupies() }

func (a *Appointment) Services() []ServiceLine {
	out := make([]ServiceLine, len(a.services))
	copy(out, a.services)
	return out
}
