package response

import (
	"time"

	"booking-engine/internal/domain/appointment"

	"github.com/google/uuid"
)

type ServiceLineResponse struct {
	ServiceID   uuid.UUID `json:"serviceId"`
	Code        string    `json:"code"`
	DurationMin int       `json:"durationMin"`
}

type AppointmentResponse struct {
	ID           uuid.UUID             `json:"id"`
	TenantID     uuid.UUID             `json:"tenantId"`
	StaffID      uuid.UUID             `json:"staffId"`
	ClientID     *uuid.UUID            `json:"clientId,omitempty"`
	ClientName   string                `json:"clientName"`
	ClientPhone  string                `json:"clientPhone,omitempty"`
	ClientLocale string                `json:"clientLocale,omitempty"`
	Services     []ServiceLineResponse `json:"services"`
	Start        time.Time             `json:"start"`
	End          time.Time             `json:"end"`
	DurationMin  int                   `json:"durationMin"`
	Status       string                `json:"status"`
	CancelReason string                `json:"cancelReason,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

func FromAppointment(a *appointment.Appointment) *AppointmentResponse {
	lines := a.Services()
	services := make([]ServiceLineResponse, len(lines))
	for i, l := range lines {
		services[i] = ServiceLineResponse{ServiceID: l.ServiceID, Code: l.Code, DurationMin: l.DurationMin}
	}
	client := a.Client()
	return &AppointmentResponse{
		ID:           a.ID(),
		TenantID:     a.TenantID(),
		StaffID:      a.StaffID(),
		ClientID:     client.ID,
		ClientName:   client.Name,
		ClientPhone:  client.Phone,
		ClientLocale: client.Locale,
		Services:     services,
		Start:        a.Start(),
		End:          a.End(),
		DurationMin:  int(a.Duration() / time.Minute),
		Status:       a.Status().String(),
		CancelReason: a.CancelReason(),
		CreatedAt:    a.CreatedAt(),
		UpdatedAt:    a.UpdatedAt(),
	}
}
