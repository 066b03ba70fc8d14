package response

import (
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/pkg/ptr"
	"booking-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	StaffID     uuid.UUID `json:"staffId"`
	DurationMin int       `json:"durationMin"`
	Available   bool      `json:"available"`
}

type StaffOptionResponse struct {
	StaffID        uuid.UUID `json:"staffId"`
	Name           string    `json:"name"`
	LanguageMatch  bool      `json:"languageMatch"`
	AvailableCount int       `json:"availableCount"`
}

type StaffSlotsResponse struct {
	StaffID   uuid.UUID      `json:"staffId"`
	StaffName string         `json:"staffName"`
	Slots     []SlotResponse `json:"slots"`
}

// AvailabilityResponse has Slots set for a single-staff query and Staff plus
// StaffOptions set otherwise.
type AvailabilityResponse struct {
	Mode         string                `json:"mode"`
	Date         string                `json:"date"`
	DurationMin  int                   `json:"durationMin"`
	StaffID      *uuid.UUID            `json:"staffId,omitempty"`
	StaffName    string                `json:"staffName,omitempty"`
	Slots        []SlotResponse        `json:"slots,omitempty"`
	Staff        []StaffSlotsResponse  `json:"staff,omitempty"`
	StaffOptions []StaffOptionResponse `json:"staffOptions,omitempty"`
}

const (
	AvailabilityModeSingle = "single"
	AvailabilityModeMulti  = "multi"
)

func FromAvailabilityResult(result queries.AvailabilityResult) *AvailabilityResponse {
	switch r := result.(type) {
	case *queries.SingleStaffAvailability:
		return &AvailabilityResponse{
			Mode:        AvailabilityModeSingle,
			Date:        r.Date,
			DurationMin: r.DurationMin,
			StaffID:     ptr.Of(r.StaffID),
			StaffName:   r.StaffName,
			Slots:       fromSlots(r.Slots),
		}
	case *queries.MultiStaffAvailability:
		staff := make([]StaffSlotsResponse, len(r.Staff))
		for i, s := range r.Staff {
			staff[i] = StaffSlotsResponse{StaffID: s.StaffID, StaffName: s.StaffName, Slots: fromSlots(s.Slots)}
		}
		options := make([]StaffOptionResponse, len(r.StaffOptions))
		for i, o := range r.StaffOptions {
			options[i] = StaffOptionResponse{
				StaffID:        o.StaffID,
				Name:           o.Name,
				LanguageMatch:  o.LanguageMatch,
				AvailableCount: o.AvailableCount,
			}
		}
		return &AvailabilityResponse{
			Mode:         AvailabilityModeMulti,
			Date:         r.Date,
			DurationMin:  r.DurationMin,
			Staff:        staff,
			StaffOptions: options,
		}
	default:
		return nil
	}
}

func fromSlots(slots []availability.Slot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{
			Start:       s.Start,
			End:         s.End(),
			StaffID:     s.StaffID,
			DurationMin: s.DurationMin,
			Available:   s.Available,
		}
	}
	return out
}
