package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/domain/service"
	"booking-engine/internal/domain/staff"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const maxStaffFanOut = 8

type AvailabilityParams struct {
	TenantID      uuid.UUID
	Date          string
	ServiceRefs   []string
	StaffID       *uuid.UUID
	BufferMinutes *int
	DurationMin   *int
	Locale        string
}

// AvailabilityResult is either *SingleStaffAvailability or
// *MultiStaffAvailability.
type AvailabilityResult interface {
	availabilityResult()
}

type SingleStaffAvailability struct {
	Date        string
	DurationMin int
	StaffID     uuid.UUID
	StaffName   string
	Slots       []availability.Slot
}

type StaffSlots struct {
	StaffID   uuid.UUID
	StaffName string
	Slots     []availability.Slot
}

// MultiStaffAvailability carries every eligible member's own slots, listed in
// the same order as StaffOptions.
type MultiStaffAvailability struct {
	Date         string
	DurationMin  int
	Staff        []StaffSlots
	StaffOptions []availability.StaffOption
}

func (*SingleStaffAvailability) availabilityResult() {}
func (*MultiStaffAvailability) availabilityResult() {}

type AvailabilityQueries interface {
	GetAvailableSlots(ctx context.Context, params AvailabilityParams) (AvailabilityResult, error)
}

type availabilityQueriesImpl struct {
	refs   shared.ReferenceReads
	cal    shared.CalendarReads
	policy shared.BookingPolicy
	clock  clock.Clock
	logger *slog.Logger
}

func NewAvailabilityQueries(
	refs shared.ReferenceReads,
	cal shared.CalendarReads,
	policy shared.BookingPolicy,
	clk clock.Clock,
	logger *slog.Logger,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		refs:   refs,
		cal:    cal,
		policy: policy,
		clock:  clk,
		logger: logger,
	}
}

// request is the validated form of AvailabilityParams.
type request struct {
	settings *shared.TenantSettings
	loc      *time.Location
	day      time.Time
	now      time.Time
	duration time.Duration
	buffer   time.Duration
	eligible []*staff.Staff
}

func (q *availabilityQueriesImpl) GetAvailableSlots(ctx context.Context, params AvailabilityParams) (AvailabilityResult, error) {
	req, err := q.validate(ctx, params)
	if err != nil {
		return nil, err
	}
	durationMin := int(req.duration / time.Minute)

	if params.StaffID != nil {
		st := findStaff(req.eligible, *params.StaffID)
		if st == nil {
			return nil, errs.ErrStaffNotFound
		}
		slots, err := q.staffSlots(ctx, st, req)
		if err != nil {
			return nil, err
		}
		return &SingleStaffAvailability{
			Date:        params.Date,
			DurationMin: durationMin,
			StaffID:     st.ID(),
			StaffName:   st.Name(),
			Slots:       slots,
		}, nil
	}

	perStaff := make([][]availability.Slot, len(req.eligible))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxStaffFanOut)
	for i, st := range req.eligible {
		g.Go(func() error {
			slots, err := q.staffSlots(gctx, st, req)
			if err != nil {
				return err
			}
			perStaff[i] = slots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]availability.Candidate, len(req.eligible))
	byID := make(map[uuid.UUID]StaffSlots, len(req.eligible))
	for i, st := range req.eligible {
		candidates[i] = availability.Candidate{
			StaffID:        st.ID(),
			Name:           st.Name(),
			Locales:        st.Locales(),
			AvailableCount: availability.CountAvailable(perStaff[i]),
		}
		byID[st.ID()] = StaffSlots{StaffID: st.ID(), StaffName: st.Name(), Slots: perStaff[i]}
	}

	options := availability.RankStaff(candidates, params.Locale)
	ordered := make([]StaffSlots, len(options))
	for i, o := range options {
		ordered[i] = byID[o.StaffID]
	}

	q.logger.Debug("availability computed",
		slog.String("tenant_id", params.TenantID.String()),
		slog.String("date", params.Date),
		slog.Int("staff", len(ordered)),
		slog.Int("duration_min", durationMin))

	return &MultiStaffAvailability{
		Date:         params.Date,
		DurationMin:  durationMin,
		Staff:        ordered,
		StaffOptions: options,
	}, nil
}

func (q *availabilityQueriesImpl) validate(ctx context.Context, params AvailabilityParams) (*request, error) {
	if _, err := time.Parse(shared.DateLayout, strings.TrimSpace(params.Date)); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDate)
	}

	settings, err := q.refs.TenantSettings(ctx, params.TenantID)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrInvalidRequest)
	}
	loc := settings.Location(q.policy.DefaultLocation)

	day, err := shared.ParseDate(params.Date, loc)
	if err != nil {
		return nil, err
	}
	now := q.clock.Now()
	if err := q.policy.CheckDate(day, now, loc); err != nil {
		return nil, err
	}

	services, err := ResolveServices(ctx, q.refs, params.TenantID, params.ServiceRefs)
	if err != nil {
		return nil, err
	}

	durationMin := service.TotalDurationMin(services)
	if params.DurationMin != nil {
		if *params.DurationMin <= 0 {
			return nil, errs.ErrInvalidRequest
		}
		durationMin = *params.DurationMin
	}

	buffer := settings.Buffer()
	if params.BufferMinutes != nil {
		if *params.BufferMinutes < 0 {
			return nil, errs.ErrInvalidRequest
		}
		buffer = time.Duration(*params.BufferMinutes) * time.Minute
	}

	eligible, err := EligibleStaff(ctx, q.refs, params.TenantID, services)
	if err != nil {
		return nil, err
	}

	return &request{
		settings: settings,
		loc:      loc,
		day:      day,
		now:      now,
		duration: time.Duration(durationMin) * time.Minute,
		buffer:   buffer,
		eligible: eligible,
	}, nil
}

func (q *availabilityQueriesImpl) staffSlots(ctx context.Context, st *staff.Staff, req *request) ([]availability.Slot, error) {
	window, open := availability.DayWindow(st.Schedule(req.settings.Hours), req.day, req.loc)
	if !open {
		return []availability.Slot{}, nil
	}

	grid := availability.GenerateGrid(window, req.duration, q.policy.Step, req.now)
	if len(grid) == 0 {
		return []availability.Slot{}, nil
	}

	set, err := LoadBlockingSet(ctx, q.cal, st.ID(), window, req.buffer)
	if err != nil {
		return nil, err
	}
	return set.Mark(grid, st.ID(), int(req.duration/time.Minute)), nil
}

// LoadBlockingSet reads everything that can block staffID around window. A
// failed read fails the caller; availability is never widened on error.
func LoadBlockingSet(
	ctx context.Context,
	cal shared.CalendarReads,
	staffID uuid.UUID,
	window calendar.Interval,
	buffer time.Duration,
	exclude ...uuid.UUID,
) (*availability.BlockingSet, error) {
	span := window.Expand(buffer + time.Minute)

	offs, err := cal.TimeOff(ctx, staffID, span)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	appts, err := cal.OccupyingAppointments(ctx, staffID, span)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return availability.NewBlockingSet(offs, appts, buffer, exclude...), nil
}

// ResolveServices resolves every ref to an active service. A single unknown
// or inactive ref fails the whole request.
func ResolveServices(ctx context.Context, refs shared.ReferenceReads, tenantID uuid.UUID, raw []string) ([]*service.Service, error) {
	wanted := make([]service.Ref, 0, len(raw))
	for _, r := range shared.DedupeIDs(raw) {
		if r = strings.TrimSpace(r); r != "" {
			wanted = append(wanted, service.Ref(r))
		}
	}
	if len(wanted) == 0 {
		return nil, errs.ErrServiceNotFound
	}

	found, err := refs.ResolveServices(ctx, tenantID, wanted)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrServiceNotFound)
	}

	ordered := make([]*service.Service, 0, len(wanted))
	for _, ref := range wanted {
		var match *service.Service
		for _, s := range found {
			if s.IsActive() && ref.Matches(s) {
				match = s
				break
			}
		}
		if match == nil {
			return nil, errs.ErrServiceNotFound
		}
		ordered = append(ordered, match)
	}
	return ordered, nil
}

// EligibleStaff lists active members who perform every given service.
func EligibleStaff(ctx context.Context, refs shared.ReferenceReads, tenantID uuid.UUID, services []*service.Service) ([]*staff.Staff, error) {
	all, err := refs.ActiveStaff(ctx, tenantID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	ids := make([]uuid.UUID, len(services))
	for i, s := range services {
		ids[i] = s.ID()
	}

	eligible := make([]*staff.Staff, 0, len(all))
	for _, st := range all {
		if st.IsActive() && st.Performs(ids...) {
			eligible = append(eligible, st)
		}
	}
	return eligible, nil
}

func findStaff(list []*staff.Staff, id uuid.UUID) *staff.Staff {
	for _, st := range list {
		if st.ID() == id {
			return st
		}
	}
	return nil
}

func mapReadErr(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
