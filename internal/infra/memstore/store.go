package memstore

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/domain/service"
	"booking-engine/internal/domain/staff"
	"booking-engine/internal/infra"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store keeps reference data and calendars in process. It implements
// shared.ReferenceReads, shared.CalendarReads and shared.UnitOfWork, with one
// mutex per staff member standing in for the PostgreSQL advisory lock.
type Store struct {
	mu           sync.RWMutex
	tenants      map[uuid.UUID]shared.TenantSettings
	staff        map[uuid.UUID]*staff.Staff
	services     map[uuid.UUID]*service.Service
	timeOff      map[uuid.UUID][]calendar.TimeOff
	appointments map[uuid.UUID]*appointment.Appointment
	events       []shared.AppointmentEvent

	locksMu    sync.Mutex
	staffLocks map[uuid.UUID]*sync.Mutex
}

func New() *Store {
	return &Store{
		tenants:      make(map[uuid.UUID]shared.TenantSettings),
		staff:        make(map[uuid.UUID]*staff.Staff),
		services:     make(map[uuid.UUID]*service.Service),
		timeOff:      make(map[uuid.UUID][]calendar.TimeOff),
		appointments: make(map[uuid.UUID]*appointment.Appointment),
		staffLocks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// -----------------------------------------------------------------------------
// Seeding
// -----------------------------------------------------------------------------

func (s *Store) PutTenant(settings shared.TenantSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[settings.TenantID] = settings
}

func (s *Store) PutStaff(members ...*staff.Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		s.staff[m.ID()] = m
	}
}

func (s *Store) PutService(services ...*service.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range services {
		s.services[svc.ID()] = svc
	}
}

func (s *Store) PutTimeOff(offs ...calendar.TimeOff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, off := range offs {
		s.timeOff[off.StaffID] = append(s.timeOff[off.StaffID], off)
	}
}

// PutAppointment stores a copy without any overlap check.
func (s *Store) PutAppointment(a *appointment.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[a.ID()] = clone(a)
}

// Events returns the outbox in append order.
func (s *Store) Events() []shared.AppointmentEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]shared.AppointmentEvent, len(s.events))
	copy(out, s.events)
	return out
}

// -----------------------------------------------------------------------------
// ReferenceReads
// -----------------------------------------------------------------------------

func (s *Store) TenantSettings(_ context.Context, tenantID uuid.UUID) (*shared.TenantSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.tenants[tenantID]
	if !ok {
		return nil, infra.WrapRepoErr("tenant not found", nil, infra.KindNotFound)
	}
	return &settings, nil
}

func (s *Store) ActiveStaff(_ context.Context, tenantID uuid.UUID) ([]*staff.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*staff.Staff
	for _, m := range s.staff {
		if m.TenantID() == tenantID && m.IsActive() {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].ID(), result[j].ID()
		return bytes.Compare(a[:], b[:]) < 0
	})
	return result, nil
}

func (s *Store) ResolveServices(_ context.Context, tenantID uuid.UUID, refs []service.Ref) ([]*service.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*service.Service
	for _, svc := range s.services {
		if svc.TenantID() != tenantID {
			continue
		}
		for _, ref := range refs {
			if ref.Matches(svc) {
				result = append(result, svc)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.Compare(result[i].Code(), result[j].Code()) < 0
	})
	return result, nil
}

// -----------------------------------------------------------------------------
// CalendarReads
// -----------------------------------------------------------------------------

func (s *Store) TimeOff(_ context.Context, staffID uuid.UUID, window calendar.Interval) ([]calendar.TimeOff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []calendar.TimeOff
	for _, off := range s.timeOff[staffID] {
		if off.Interval.Overlaps(window) {
			result = append(result, off)
		}
	}
	return result, nil
}

func (s *Store) OccupyingAppointments(_ context.Context, staffID uuid.UUID, window calendar.Interval) ([]*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.occupying(staffID, window, nil), nil
}

func (s *Store) AppointmentByID(_ context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok || a.TenantID() != tenantID {
		return nil, infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return clone(a), nil
}

// occupying must be called with s.mu held. Staged rows shadow stored ones.
func (s *Store) occupying(staffID uuid.UUID, window calendar.Interval, staged map[uuid.UUID]*appointment.Appointment) []*appointment.Appointment {
	var result []*appointment.Appointment
	consider := func(a *appointment.Appointment) {
		if a.StaffID() == staffID && a.IsOccupying() && a.Interval().Overlaps(window) {
			result = append(result, clone(a))
		}
	}
	for id, a := range s.appointments {
		if _, shadowed := staged[id]; shadowed {
			continue
		}
		consider(a)
	}
	for _, a := range staged {
		consider(a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start().Before(result[j].Start())
	})
	return result
}

// -----------------------------------------------------------------------------
// UnitOfWork
// -----------------------------------------------------------------------------

func (s *Store) WithinStaffLock(ctx context.Context, staffIDs []uuid.UUID, fn func(ctx context.Context, tx shared.Tx) error) error {
	ids := shared.DedupeIDs(staffIDs)
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	for _, id := range ids {
		l := s.staffLock(id)
		l.Lock()
		defer l.Unlock()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{
		store:  s,
		staged: make(map[uuid.UUID]*appointment.Appointment),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

func (s *Store) staffLock(id uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.staffLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.staffLocks[id] = l
	}
	return l
}

func clone(a *appointment.Appointment) *appointment.Appointment {
	return appointment.ReconstructAppointment(
		a.ID(), a.TenantID(), a.StaffID(), a.Client(), a.Services(), a.Interval(),
		a.Status(), a.CancelReason(), a.CreatedAt(), a.UpdatedAt(),
	)
}
