//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/domain/service"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/memstore"
	"booking-engine/internal/usecase/shared"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = calendar.DayBounds(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), time.UTC)

func newAppointment(staffID uuid.UUID, start time.Time) *appointment.Appointment {
	return builder.NewAppointmentBuilder().With(func(b *builder.AppointmentBuilder) {
		b.StaffID = staffID
		b.Start = start
	}).MustBuild()
}

func TestWithinStaffLock_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	a := newAppointment(uuid.New(), time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))

	err := store.WithinStaffLock(ctx, []uuid.UUID{a.StaffID()}, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Appointments().Insert(ctx, a); err != nil {
			return err
		}
		// staged rows are visible inside the transaction only
		inTx, err := tx.Calendar().OccupyingAppointments(ctx, a.StaffID(), day)
		require.NoError(t, err)
		assert.Len(t, inTx, 1)

		outside, err := store.OccupyingAppointments(ctx, a.StaffID(), day)
		require.NoError(t, err)
		assert.Empty(t, outside)

		return tx.Events().Append(ctx, shared.AppointmentEvent{AppointmentID: a.ID(), Kind: shared.EventAppointmentCreated})
	})
	require.NoError(t, err)

	got, err := store.AppointmentByID(ctx, a.TenantID(), a.ID())
	require.NoError(t, err)
	assert.Equal(t, a.Interval(), got.Interval())
	assert.Len(t, store.Events(), 1)
}

func TestWithinStaffLock_DiscardsOnError(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	a := newAppointment(uuid.New(), time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))
	boom := errors.New("boom")

	err := store.WithinStaffLock(ctx, []uuid.UUID{a.StaffID()}, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Appointments().Insert(ctx, a))
		require.NoError(t, tx.Events().Append(ctx, shared.AppointmentEvent{AppointmentID: a.ID()}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.AppointmentByID(ctx, a.TenantID(), a.ID())
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.Empty(t, store.Events())
}

func TestWithinStaffLock_RejectsOverlapAtCommit(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	staffID := uuid.New()

	store.PutAppointment(newAppointment(staffID, time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)))
	overlapping := newAppointment(staffID, time.Date(2025, 6, 3, 11, 0, 0, 0, time.UTC))

	err := store.WithinStaffLock(ctx, []uuid.UUID{staffID}, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().Insert(ctx, overlapping)
	})
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindConflict))

	booked, err := store.OccupyingAppointments(ctx, staffID, day)
	require.NoError(t, err)
	assert.Len(t, booked, 1)
}

func TestWithinStaffLock_StatusUpdateReleasesInterval(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	a := newAppointment(uuid.New(), time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))
	store.PutAppointment(a)

	err := store.WithinStaffLock(ctx, []uuid.UUID{a.StaffID()}, func(ctx context.Context, tx shared.Tx) error {
		locked, err := tx.Appointments().FindForUpdate(ctx, a.TenantID(), a.ID())
		if err != nil {
			return err
		}
		if err := locked.Cancel("", time.Now()); err != nil {
			return err
		}
		return tx.Appointments().UpdateStatus(ctx, locked)
	})
	require.NoError(t, err)

	booked, err := store.OccupyingAppointments(ctx, a.StaffID(), day)
	require.NoError(t, err)
	assert.Empty(t, booked)

	_, err = store.AppointmentByID(ctx, uuid.New(), a.ID())
	assert.True(t, infra.IsKind(err, infra.KindNotFound), "other tenants must not see the appointment")
}

func TestResolveServices_MatchesIDsAndCodes(t *testing.T) {
	store := memstore.New()
	tenantID := uuid.New()
	cut := builder.NewService(tenantID, "cut", 30)
	color := builder.NewService(tenantID, "color", 60)
	store.PutService(cut, color, builder.NewService(uuid.New(), "cut", 45))

	found, err := store.ResolveServices(context.Background(), tenantID, []service.Ref{"CUT", service.Ref(color.ID().String())})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "color", found[0].Code())
	assert.Equal(t, "cut", found[1].Code())
}

func TestTimeOff_ReturnsOnlyOverlappingEntries(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	staffID := uuid.New()

	at := func(h int) time.Time { return time.Date(2025, 6, 3, h, 0, 0, 0, time.UTC) }
	lunch, err := calendar.NewTimeOff(uuid.New(), staffID, at(12), at(13), "lunch")
	require.NoError(t, err)
	nextDay, err := calendar.NewTimeOff(uuid.New(), staffID, at(12).AddDate(0, 0, 1), at(13).AddDate(0, 0, 1), "training")
	require.NoError(t, err)
	other, err := calendar.NewTimeOff(uuid.New(), uuid.New(), at(9), at(10), "dentist")
	require.NoError(t, err)
	store.PutTimeOff(lunch, nextDay, other)

	got, err := store.TimeOff(ctx, staffID, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, lunch.ID, got[0].ID)

	// a window ending exactly when lunch starts does not touch it
	morning, err := calendar.NewInterval(at(9), at(12))
	require.NoError(t, err)
	got, err = store.TimeOff(ctx, staffID, morning)
	require.NoError(t, err)
	assert.Empty(t, got)
}
