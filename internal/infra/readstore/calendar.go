package readstore

import (
	"context"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/converter"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	listTimeOffSQL = `
SELECT id, staff_id, start_at, end_at, reason
FROM time_off
WHERE staff_id = $1 AND start_at < $3 AND end_at > $2
ORDER BY start_at`

	listOccupyingSQL = `
SELECT ` + converter.AppointmentColumns + `
FROM appointments a
WHERE a.staff_id = $1
  AND a.status IN ('PENDING', 'CONFIRMED')
  AND a.start_at < $3 AND a.end_at > $2
ORDER BY a.start_at`

	getAppointmentSQL = `
SELECT ` + converter.AppointmentColumns + `
FROM appointments a
WHERE a.tenant_id = $1 AND a.id = $2`
)

// CalendarReadStore reads what can block a staff member's time. Bound to a
// pool it serves availability; bound to a transaction it serves commits.
type CalendarReadStore struct {
	db db.DBTX
}

func NewCalendarReadStore(dbtx db.DBTX) *CalendarReadStore {
	return &CalendarReadStore{db: dbtx}
}

func (r *CalendarReadStore) TimeOff(ctx context.Context, staffID uuid.UUID, window calendar.Interval) ([]calendar.TimeOff, error) {
	rows, err := r.db.Query(ctx, listTimeOffSQL, staffID, window.Start, window.End)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list time off", err)
	}
	defer rows.Close()

	var result []calendar.TimeOff
	for rows.Next() {
		var (
			id, sid        uuid.UUID
			startAt, endAt pgtype.Timestamptz
			reason         string
		)
		if err := rows.Scan(&id, &sid, &startAt, &endAt, &reason); err != nil {
			return nil, infra.WrapRepoErr("failed to scan time off", err)
		}
		off, err := calendar.NewTimeOff(id, sid, pgconv.TimeFromPgtype(startAt), pgconv.TimeFromPgtype(endAt), reason)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid time off row", err, infra.KindDBFailure)
		}
		result = append(result, off)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate time off", err)
	}

	return result, nil
}

func (r *CalendarReadStore) OccupyingAppointments(ctx context.Context, staffID uuid.UUID, window calendar.Interval) ([]*appointment.Appointment, error) {
	rows, err := r.db.Query(ctx, listOccupyingSQL, staffID, window.Start, window.End)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointments", err)
	}

	result, err := converter.CollectAppointments(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read appointments", err)
	}
	return result, nil
}

func (r *CalendarReadStore) AppointmentByID(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := converter.ScanAppointment(r.db.QueryRow(ctx, getAppointmentSQL, tenantID, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get appointment", err)
	}
	return a, nil
}
