package memstore

import (
	"context"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/infra"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// memTx stages writes and applies them on commit. Reads through the tx see
// staged rows first.
type memTx struct {
	store  *Store
	staged map[uuid.UUID]*appointment.Appointment
	events []shared.AppointmentEvent
}

func (t *memTx) Appointments() shared.AppointmentRepository { return (*txAppointments)(t) }
func (t *memTx) Calendar() shared.CalendarReads             { return (*txCalendar)(t) }
func (t *memTx) Events() shared.EventRepository             { return (*txEvents)(t) }

// commit re-checks the no-overlap rule the database enforces with an
// exclusion constraint.
func (t *memTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range t.staged {
		if !a.IsOccupying() {
			continue
		}
		for _, other := range s.occupying(a.StaffID(), a.Interval(), t.staged) {
			if other.ID() != a.ID() {
				return infra.WrapRepoErr("appointment overlaps an existing one", nil, infra.KindConflict)
			}
		}
	}

	for id, a := range t.staged {
		s.appointments[id] = a
	}
	s.events = append(s.events, t.events...)
	return nil
}

func (t *memTx) lookup(tenantID, id uuid.UUID) (*appointment.Appointment, bool) {
	if a, ok := t.staged[id]; ok {
		return a, a.TenantID() == tenantID
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	a, ok := t.store.appointments[id]
	if !ok || a.TenantID() != tenantID {
		return nil, false
	}
	return a, true
}

type txAppointments memTx

func (r *txAppointments) Insert(_ context.Context, a *appointment.Appointment) error {
	t := (*memTx)(r)
	if _, exists := t.lookup(a.TenantID(), a.ID()); exists {
		return infra.WrapRepoErr("appointment already exists", nil, infra.KindDuplicateKey)
	}
	t.staged[a.ID()] = clone(a)
	return nil
}

func (r *txAppointments) UpdateInterval(_ context.Context, a *appointment.Appointment) error {
	return r.update(a)
}

func (r *txAppointments) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	return r.update(a)
}

func (r *txAppointments) update(a *appointment.Appointment) error {
	t := (*memTx)(r)
	if _, exists := t.lookup(a.TenantID(), a.ID()); !exists {
		return infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	t.staged[a.ID()] = clone(a)
	return nil
}

func (r *txAppointments) FindForUpdate(_ context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := (*memTx)(r).lookup(tenantID, id)
	if !ok {
		return nil, infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return clone(a), nil
}

type txCalendar memTx

func (c *txCalendar) TimeOff(ctx context.Context, staffID uuid.UUID, window calendar.Interval) ([]calendar.TimeOff, error) {
	return c.store.TimeOff(ctx, staffID, window)
}

func (c *txCalendar) OccupyingAppointments(_ context.Context, staffID uuid.UUID, window calendar.Interval) ([]*appointment.Appointment, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return c.store.occupying(staffID, window, c.staged), nil
}

func (c *txCalendar) AppointmentByID(_ context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := (*memTx)(c).lookup(tenantID, id)
	if !ok {
		return nil, infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return clone(a), nil
}

type txEvents memTx

func (e *txEvents) Append(_ context.Context, evt shared.AppointmentEvent) error {
	e.events = append(e.events, evt)
	return nil
}
