package converter

import (
	"encoding/json"
	"fmt"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// AppointmentColumns selects an appointment row with its ordered service
// lines folded into a JSON array. The table must be aliased as "a".
const AppointmentColumns = `
a.id, a.tenant_id, a.staff_id, a.client_id, a.client_name, a.client_phone, a.client_locale,
a.start_at, a.end_at, a.status, a.cancel_reason, a.created_at, a.updated_at,
COALESCE((
    SELECT json_agg(json_build_object(
        'service_id', s.service_id, 'code', s.code, 'duration_min', s.duration_min
    ) ORDER BY s.position)
    FROM appointment_services s
    WHERE s.appointment_id = a.id
), '[]'::json) AS services`

type serviceLineRow struct {
	ServiceID   uuid.UUID `json:"service_id"`
	Code        string    `json:"code"`
	DurationMin int       `json:"duration_min"`
}

// ScanAppointment reads one row selected with AppointmentColumns.
func ScanAppointment(row pgx.Row) (*appointment.Appointment, error) {
	var (
		id, tenantID, staffID uuid.UUID
		clientID              pgtype.UUID
		client                appointment.Client
		startAt, endAt        pgtype.Timestamptz
		status, cancelReason  string
		createdAt, updatedAt  pgtype.Timestamptz
		servicesJSON          []byte
	)
	if err := row.Scan(
		&id, &tenantID, &staffID, &clientID, &client.Name, &client.Phone, &client.Locale,
		&startAt, &endAt, &status, &cancelReason, &createdAt, &updatedAt, &servicesJSON,
	); err != nil {
		return nil, err
	}
	client.ID = pgconv.UUIDPtrFromPgtype(clientID)

	var lines []serviceLineRow
	if err := json.Unmarshal(servicesJSON, &lines); err != nil {
		return nil, fmt.Errorf("decode service lines: %w", err)
	}
	services := make([]appointment.ServiceLine, len(lines))
	for i, l := range lines {
		services[i] = appointment.ServiceLine{ServiceID: l.ServiceID, Code: l.Code, DurationMin: l.DurationMin}
	}

	st, err := appointment.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	interval, err := calendar.NewInterval(pgconv.TimeFromPgtype(startAt), pgconv.TimeFromPgtype(endAt))
	if err != nil {
		return nil, err
	}

	return appointment.ReconstructAppointment(
		id, tenantID, staffID, client, services, interval, st, cancelReason,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func CollectAppointments(rows pgx.Rows) ([]*appointment.Appointment, error) {
	defer rows.Close()

	var result []*appointment.Appointment
	for rows.Next() {
		a, err := ScanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
