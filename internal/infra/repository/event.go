package repository

import (
	"context"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"
	"booking-engine/internal/usecase/shared"
)

const insertAppointmentEventSQL = `
INSERT INTO appointment_events (appointment_id, tenant_id, kind, payload, occurred_at)
VALUES ($1, $2, $3, $4, $5)`

// EventRepository appends to the appointment outbox.
type EventRepository struct {
	db db.DBTX
}

func NewEventRepository(dbtx db.DBTX) *EventRepository {
	return &EventRepository{db: dbtx}
}

func (r *EventRepository) Append(ctx context.Context, evt shared.AppointmentEvent) error {
	_, err := r.db.Exec(ctx, insertAppointmentEventSQL,
		evt.AppointmentID, evt.TenantID, evt.Kind, evt.Payload, pgconv.TimeToPgtype(evt.OccurredAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append appointment event", err)
	}
	return nil
}
