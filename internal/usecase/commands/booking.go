package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/domain/service"
	"booking-engine/internal/domain/staff"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/queries"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingParams struct {
	TenantID    uuid.UUID
	Client      appointment.Client
	ServiceRefs []string
	Date        string
	Time        string
	StaffID     *uuid.UUID
}

type RescheduleParams struct {
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	Date          string
	Time          string
	StaffID       *uuid.UUID
}

type CancelParams struct {
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	Reason        string
}

type BookingCommands interface {
	Create(ctx context.Context, params CreateBookingParams) (*appointment.Appointment, error)
	Reschedule(ctx context.Context, params RescheduleParams) (*appointment.Appointment, error)
	Cancel(ctx context.Context, params CancelParams) (*appointment.Appointment, error)
	Confirm(ctx context.Context, tenantID, appointmentID uuid.UUID) (*appointment.Appointment, error)
	Complete(ctx context.Context, tenantID, appointmentID uuid.UUID) (*appointment.Appointment, error)
}

// maxOwnerChanges bounds how often a status change follows an appointment
// that keeps being moved between staff members.
const maxOwnerChanges = 3

var errOwnerChanged = errs.New("appointment changed staff member")

type bookingCommandsImpl struct {
	uow    shared.UnitOfWork
	refs   shared.ReferenceReads
	cal    shared.CalendarReads
	policy shared.BookingPolicy
	clock  clock.Clock
	logger *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	refs shared.ReferenceReads,
	cal shared.CalendarReads,
	policy shared.BookingPolicy,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:    uow,
		refs:   refs,
		cal:    cal,
		policy: policy,
		clock:  clk,
		logger: logger,
	}
}

// target is a validated start time in the tenant's zone.
type target struct {
	settings *shared.TenantSettings
	loc      *time.Location
	day      time.Time
	start    time.Time
	now      time.Time
}

func (c *bookingCommandsImpl) resolveTarget(ctx context.Context, tenantID uuid.UUID, date, clockTime string) (*target, error) {
	if _, err := time.Parse(shared.DateLayout, strings.TrimSpace(date)); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDate)
	}

	settings, err := c.refs.TenantSettings(ctx, tenantID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrInvalidRequest)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	loc := settings.Location(c.policy.DefaultLocation)

	day, err := shared.ParseDate(date, loc)
	if err != nil {
		return nil, err
	}
	start, err := shared.ParseStart(date, clockTime, loc)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	if err := c.policy.CheckDate(day, now, loc); err != nil {
		return nil, err
	}
	if start.Before(now) {
		return nil, errs.ErrPastDate
	}

	return &target{settings: settings, loc: loc, day: day, start: start, now: now}, nil
}

// withinHours reports whether interval fits the member's opening window.
func withinHours(st *staff.Staff, t *target, interval calendar.Interval) bool {
	window, open := availability.DayWindow(st.Schedule(t.settings.Hours), t.day, t.loc)
	return open && window.Covers(interval)
}

func (c *bookingCommandsImpl) Create(ctx context.Context, params CreateBookingParams) (*appointment.Appointment, error) {
	ctx = shared.WithFreshReads(ctx)
	if strings.TrimSpace(params.Client.Name) == "" {
		return nil, errs.Mark(appointment.ErrClientNameRequired, errs.ErrInvalidRequest)
	}

	t, err := c.resolveTarget(ctx, params.TenantID, params.Date, params.Time)
	if err != nil {
		return nil, err
	}

	services, err := queries.ResolveServices(ctx, c.refs, params.TenantID, params.ServiceRefs)
	if err != nil {
		return nil, err
	}
	lines := serviceLines(services)
	interval := calendar.IntervalOf(t.start, appointment.TotalDuration(lines))

	eligible, err := queries.EligibleStaff(ctx, c.refs, params.TenantID, services)
	if err != nil {
		return nil, err
	}

	candidates, err := c.orderCandidates(eligible, params.StaffID, params.Client.Locale)
	if err != nil {
		return nil, err
	}

	initial := appointment.StatusPending
	if t.settings.AutoConfirm {
		initial = appointment.StatusConfirmed
	}

	inHours := 0
	for _, st := range candidates {
		if !withinHours(st, t, interval) {
			continue
		}
		inHours++

		a, err := appointment.NewAppointment(params.TenantID, st.ID(), params.Client, lines, t.start, initial, t.now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidRequest)
		}

		err = c.uow.WithinStaffLock(ctx, []uuid.UUID{st.ID()}, func(ctx context.Context, tx shared.Tx) error {
			set, err := queries.LoadBlockingSet(ctx, tx.Calendar(), st.ID(), interval, t.settings.Buffer())
			if err != nil {
				return err
			}
			if set.Conflicts(interval) {
				return errs.ErrSlotConflict
			}
			if err := tx.Appointments().Insert(ctx, a); err != nil {
				return mapWriteErr(err)
			}
			return c.appendEvent(ctx, tx, a, shared.EventAppointmentCreated)
		})
		if errs.IsConflict(err) {
			c.logger.Warn("slot taken, trying next staff",
				slog.String("tenant_id", params.TenantID.String()),
				slog.String("staff_id", st.ID().String()),
				slog.Time("start", t.start))
			continue
		}
		if err != nil {
			return nil, err
		}

		c.logger.Info("appointment created",
			slog.String("appointment_id", a.ID().String()),
			slog.String("staff_id", st.ID().String()),
			slog.Time("start", a.Start()),
			slog.String("status", a.Status().String()))
		return a, nil
	}

	if inHours == 0 {
		return nil, errs.ErrOutsideWorkingHours
	}
	return nil, errs.ErrSlotConflict
}

func (c *bookingCommandsImpl) orderCandidates(eligible []*staff.Staff, staffID *uuid.UUID, locale string) ([]*staff.Staff, error) {
	if staffID != nil {
		for _, st := range eligible {
			if st.ID() == *staffID {
				return []*staff.Staff{st}, nil
			}
		}
		return nil, errs.ErrStaffNotFound
	}
	if len(eligible) == 0 {
		return nil, errs.ErrStaffNotFound
	}

	byID := make(map[uuid.UUID]*staff.Staff, len(eligible))
	cands := make([]availability.Candidate, len(eligible))
	for i, st := range eligible {
		byID[st.ID()] = st
		cands[i] = availability.Candidate{StaffID: st.ID(), Name: st.Name(), Locales: st.Locales()}
	}

	ranked := availability.RankStaff(cands, locale)
	ordered := make([]*staff.Staff, len(ranked))
	for i, o := range ranked {
		ordered[i] = byID[o.StaffID]
	}
	return ordered, nil
}

func (c *bookingCommandsImpl) Reschedule(ctx context.Context, params RescheduleParams) (*appointment.Appointment, error) {
	ctx = shared.WithFreshReads(ctx)
	current, err := c.cal.AppointmentByID(ctx, params.TenantID, params.AppointmentID)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	if !current.IsOccupying() {
		return nil, errs.ErrAppointmentNotFound
	}

	t, err := c.resolveTarget(ctx, params.TenantID, params.Date, params.Time)
	if err != nil {
		return nil, err
	}

	targetStaffID := current.StaffID()
	if params.StaffID != nil {
		targetStaffID = *params.StaffID
	}
	st, err := c.staffFor(ctx, params.TenantID, targetStaffID, current.Services())
	if err != nil {
		return nil, err
	}

	interval := calendar.IntervalOf(t.start, current.Duration())
	if !withinHours(st, t, interval) {
		return nil, errs.ErrOutsideWorkingHours
	}

	lockIDs := shared.DedupeIDs([]uuid.UUID{current.StaffID(), targetStaffID})

	var moved *appointment.Appointment
	err = c.uow.WithinStaffLock(ctx, lockIDs, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().FindForUpdate(ctx, params.TenantID, params.AppointmentID)
		if err != nil {
			return mapLookupErr(err)
		}
		if !a.IsOccupying() {
			return errs.ErrAppointmentNotFound
		}
		if a.StaffID() != current.StaffID() {
			return errs.ErrSlotConflict
		}

		set, err := queries.LoadBlockingSet(ctx, tx.Calendar(), targetStaffID, interval, t.settings.Buffer(), a.ID())
		if err != nil {
			return err
		}
		if set.Conflicts(interval) {
			return errs.ErrSlotConflict
		}

		if err := a.Reschedule(targetStaffID, t.start, t.now); err != nil {
			return errs.Mark(err, errs.ErrAppointmentNotFound)
		}
		if err := tx.Appointments().UpdateInterval(ctx, a); err != nil {
			return mapWriteErr(err)
		}
		moved = a
		return c.appendEvent(ctx, tx, a, shared.EventAppointmentRescheduled)
	})
	if err != nil {
		if errs.IsConflict(err) {
			c.logger.Warn("reschedule conflict",
				slog.String("appointment_id", params.AppointmentID.String()),
				slog.Time("start", t.start))
		}
		return nil, err
	}

	c.logger.Info("appointment rescheduled",
		slog.String("appointment_id", moved.ID().String()),
		slog.String("staff_id", moved.StaffID().String()),
		slog.Time("start", moved.Start()))
	return moved, nil
}

func (c *bookingCommandsImpl) staffFor(ctx context.Context, tenantID, staffID uuid.UUID, lines []appointment.ServiceLine) (*staff.Staff, error) {
	all, err := c.refs.ActiveStaff(ctx, tenantID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.ServiceID
	}
	for _, st := range all {
		if st.ID() == staffID && st.IsActive() && st.Performs(ids...) {
			return st, nil
		}
	}
	return nil, errs.ErrStaffNotFound
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, params CancelParams) (*appointment.Appointment, error) {
	return c.changeStatus(ctx, params.TenantID, params.AppointmentID, shared.EventAppointmentCanceled,
		func(a *appointment.Appointment, now time.Time) error {
			return a.Cancel(params.Reason, now)
		})
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, tenantID, appointmentID uuid.UUID) (*appointment.Appointment, error) {
	return c.changeStatus(ctx, tenantID, appointmentID, shared.EventAppointmentConfirmed,
		func(a *appointment.Appointment, now time.Time) error {
			return a.Confirm(now)
		})
}

func (c *bookingCommandsImpl) Complete(ctx context.Context, tenantID, appointmentID uuid.UUID) (*appointment.Appointment, error) {
	return c.changeStatus(ctx, tenantID, appointmentID, shared.EventAppointmentCompleted,
		func(a *appointment.Appointment, now time.Time) error {
			return a.Complete(now)
		})
}

// changeStatus runs a state transition under the owning staff member's lock,
// so it serializes with reschedules of the same appointment. When a reschedule
// hands the appointment to another member in between, the lock is retaken for
// the new owner.
func (c *bookingCommandsImpl) changeStatus(
	ctx context.Context,
	tenantID, appointmentID uuid.UUID,
	kind string,
	transition func(a *appointment.Appointment, now time.Time) error,
) (*appointment.Appointment, error) {
	current, err := c.cal.AppointmentByID(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	ownerID := current.StaffID()

	var updated *appointment.Appointment
	for range maxOwnerChanges {
		err = c.uow.WithinStaffLock(ctx, []uuid.UUID{ownerID}, func(ctx context.Context, tx shared.Tx) error {
			a, err := tx.Appointments().FindForUpdate(ctx, tenantID, appointmentID)
			if err != nil {
				return mapLookupErr(err)
			}
			if a.StaffID() != ownerID {
				ownerID = a.StaffID()
				return errOwnerChanged
			}
			if err := transition(a, c.clock.Now()); err != nil {
				return errs.Mark(err, errs.ErrInvalidState)
			}
			if err := tx.Appointments().UpdateStatus(ctx, a); err != nil {
				return mapWriteErr(err)
			}
			updated = a
			return c.appendEvent(ctx, tx, a, kind)
		})
		if !errs.Is(err, errOwnerChanged) {
			break
		}
		c.logger.Info("appointment moved to another staff member, retrying",
			slog.String("appointment_id", appointmentID.String()),
			slog.String("staff_id", ownerID.String()))
	}
	if errs.Is(err, errOwnerChanged) {
		return nil, errs.Mark(err, errs.ErrInvalidState)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("appointment status changed",
		slog.String("appointment_id", updated.ID().String()),
		slog.String("status", updated.Status().String()))
	return updated, nil
}

func (c *bookingCommandsImpl) appendEvent(ctx context.Context, tx shared.Tx, a *appointment.Appointment, kind string) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": a.ID(),
		"staff_id":       a.StaffID(),
		"status":         a.Status(),
		"start_at":       a.Start(),
		"end_at":         a.End(),
	})
	if err != nil {
		return err
	}

	evt := shared.AppointmentEvent{
		AppointmentID: a.ID(),
		TenantID:      a.TenantID(),
		Kind:          kind,
		Payload:       payload,
		OccurredAt:    c.clock.Now(),
	}
	if err := tx.Events().Append(ctx, evt); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func serviceLines(services []*service.Service) []appointment.ServiceLine {
	lines := make([]appointment.ServiceLine, len(services))
	for i, s := range services {
		lines[i] = appointment.ServiceLine{ServiceID: s.ID(), Code: s.Code(), DurationMin: s.DurationMin()}
	}
	return lines
}

func mapLookupErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrAppointmentNotFound)
	}
	if errs.IsClientError(err) {
		return err
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

func mapWriteErr(err error) error {
	if infra.IsKind(err, infra.KindConflict) {
		return errs.Mark(err, errs.ErrSlotConflict)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
