package request

import (
	"strings"

	"booking-engine/internal/domain/appointment"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	ClientID     *uuid.UUID `json:"clientId,omitempty"`
	ClientName   string     `json:"clientName" binding:"required,max=200"`
	ClientPhone  string     `json:"clientPhone,omitempty" binding:"max=50"`
	ClientLocale string     `json:"clientLocale,omitempty" binding:"max=35"`
	Services     []string   `json:"services" binding:"required,min=1,dive,required"`
	Date         string     `json:"date" binding:"required"`
	Time         string     `json:"time" binding:"required"`
	StaffID      *uuid.UUID `json:"staffId,omitempty"`
}

func (r CreateAppointmentRequest) Client() appointment.Client {
	return appointment.Client{
		ID:     r.ClientID,
		Name:   strings.TrimSpace(r.ClientName),
		Phone:  strings.TrimSpace(r.ClientPhone),
		Locale: strings.TrimSpace(r.ClientLocale),
	}
}

func (r CreateAppointmentRequest) ServiceRefs() []string {
	return splitRefs(r.Services)
}

type RescheduleAppointmentRequest struct {
	Date    string     `json:"date" binding:"required"`
	Time    string     `json:"time" binding:"required"`
	StaffID *uuid.UUID `json:"staffId,omitempty"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason,omitempty" binding:"max=500"`
}
