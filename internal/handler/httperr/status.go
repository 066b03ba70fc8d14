package httperr

import (
	"net/http"

	"booking-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type mapping struct {
	target  error
	status  int
	message string
}

// Order matters: the first sentinel err is marked with wins.
var mappings = []mapping{
	{errs.ErrInvalidDate, http.StatusBadRequest, "Invalid date"},
	{errs.ErrPastDate, http.StatusBadRequest, "Date is in the past"},
	{errs.ErrFarFuture, http.StatusBadRequest, "Date is beyond the booking horizon"},
	{errs.ErrOutsideWorkingHours, http.StatusBadRequest, "Requested time is outside working hours"},
	{errs.ErrInvalidRequest, http.StatusBadRequest, "Invalid request"},
	{errs.ErrServiceNotFound, http.StatusNotFound, "Service not found"},
	{errs.ErrStaffNotFound, http.StatusNotFound, "Staff not found"},
	{errs.ErrAppointmentNotFound, http.StatusNotFound, "Appointment not found"},
	{errs.ErrSlotConflict, http.StatusConflict, "Slot is no longer available"},
	{errs.ErrInvalidState, http.StatusConflict, "Appointment cannot change to the requested state"},
}

// StatusOf maps a usecase error to an HTTP status and a public message.
// Anything unrecognized is a 500.
func StatusOf(err error) (int, string) {
	for _, m := range mappings {
		if errs.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// AbortWithUsecaseError aborts with the status StatusOf picks for err.
func AbortWithUsecaseError(c *gin.Context, err error) {
	status, msg := StatusOf(err)
	AbortWithError(c, status, err, msg, nil)
}
