package request

import (
	"strings"

	"github.com/google/uuid"
)

// AvailabilityQuery binds GET /api/availability. services accepts repeated
// parameters and comma-separated lists.
type AvailabilityQuery struct {
	Date            string   `form:"date" binding:"required"`
	Services        []string `form:"services" binding:"required,min=1"`
	StaffID         string   `form:"staffId" binding:"omitempty,uuid"`
	BufferMinutes   *int     `form:"bufferMinutes" binding:"omitempty,min=0"`
	DurationMinutes *int     `form:"durationMinutes" binding:"omitempty,min=1"`
	Locale          string   `form:"locale"`
}

func (q AvailabilityQuery) ServiceRefs() []string {
	return splitRefs(q.Services)
}

func (q AvailabilityQuery) StaffUUID() *uuid.UUID {
	return parseOptionalUUID(q.StaffID)
}

func splitRefs(raw []string) []string {
	refs := make([]string, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				refs = append(refs, part)
			}
		}
	}
	return refs
}

func parseOptionalUUID(s string) *uuid.UUID {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
