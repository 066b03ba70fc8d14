package queries

import (
	"context"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type AppointmentQueries interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error)
}

type appointmentQueriesImpl struct {
	cal shared.CalendarReads
}

func NewAppointmentQueries(cal shared.CalendarReads) AppointmentQueries {
	return &appointmentQueriesImpl{cal: cal}
}

func (q *appointmentQueriesImpl) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := q.cal.AppointmentByID(ctx, tenantID, id)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrAppointmentNotFound)
	}
	return a, nil
}
