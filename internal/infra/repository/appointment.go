package repository

import (
	"context"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/converter"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	insertAppointmentSQL = `
INSERT INTO appointments (
    id, tenant_id, staff_id, client_id, client_name, client_phone, client_locale,
    start_at, end_at, status, cancel_reason, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	insertAppointmentServicesSQL = `
INSERT INTO appointment_services (appointment_id, position, service_id, code, duration_min)
SELECT $1, t.ord::int, t.service_id, t.code, t.duration_min
FROM unnest($2::uuid[], $3::text[], $4::int[]) WITH ORDINALITY AS t(service_id, code, duration_min, ord)`

	updateAppointmentIntervalSQL = `
UPDATE appointments
SET staff_id = $3, start_at = $4, end_at = $5, updated_at = $6
WHERE tenant_id = $1 AND id = $2`

	updateAppointmentStatusSQL = `
UPDATE appointments
SET status = $3, cancel_reason = $4, updated_at = $5
WHERE tenant_id = $1 AND id = $2`

	findAppointmentForUpdateSQL = `
SELECT ` + converter.AppointmentColumns + `
FROM appointments a
WHERE a.tenant_id = $1 AND a.id = $2
FOR UPDATE OF a`
)

// AppointmentRepository writes appointments inside a unit of work.
type AppointmentRepository struct {
	db db.DBTX
}

func NewAppointmentRepository(dbtx db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: dbtx}
}

func (r *AppointmentRepository) Insert(ctx context.Context, a *appointment.Appointment) error {
	client := a.Client()
	_, err := r.db.Exec(ctx, insertAppointmentSQL,
		a.ID(), a.TenantID(), a.StaffID(),
		pgconv.UUIDPtrToPgtype(client.ID), client.Name, client.Phone, client.Locale,
		pgconv.TimeToPgtype(a.Start()), pgconv.TimeToPgtype(a.End()),
		a.Status().String(), a.CancelReason(),
		pgconv.TimeToPgtype(a.CreatedAt()), pgconv.TimeToPgtype(a.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert appointment", err)
	}

	lines := a.Services()
	ids := make([]uuid.UUID, len(lines))
	codes := make([]string, len(lines))
	durations := make([]int32, len(lines))
	for i, l := range lines {
		ids[i] = l.ServiceID
		codes[i] = l.Code
		durations[i] = int32(l.DurationMin) // #nosec G115 -- service durations are small positive minutes
	}

	if _, err := r.db.Exec(ctx, insertAppointmentServicesSQL, a.ID(), ids, codes, durations); err != nil {
		return infra.WrapRepoErr("failed to insert appointment services", err)
	}
	return nil
}

func (r *AppointmentRepository) UpdateInterval(ctx context.Context, a *appointment.Appointment) error {
	tag, err := r.db.Exec(ctx, updateAppointmentIntervalSQL,
		a.TenantID(), a.ID(), a.StaffID(),
		pgconv.TimeToPgtype(a.Start()), pgconv.TimeToPgtype(a.End()), pgconv.TimeToPgtype(a.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment interval", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	tag, err := r.db.Exec(ctx, updateAppointmentStatusSQL,
		a.TenantID(), a.ID(), a.Status().String(), a.CancelReason(), pgconv.TimeToPgtype(a.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *AppointmentRepository) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := converter.ScanAppointment(r.db.QueryRow(ctx, findAppointmentForUpdateSQL, tenantID, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock appointment", err)
	}
	return a, nil
}
