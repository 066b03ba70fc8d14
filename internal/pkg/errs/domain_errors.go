package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Request validation errors
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidDate         = errors.New("invalid date")
	ErrPastDate            = errors.New("date is in the past")
	ErrFarFuture           = errors.New("date is beyond the booking horizon")
	ErrOutsideWorkingHours = errors.New("requested time is outside working hours")

	// Reference errors
	ErrServiceNotFound = errors.New("service not found")
	ErrStaffNotFound   = errors.New("staff not found")

	// Appointment errors
	ErrSlotConflict        = errors.New("slot conflict")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidState        = errors.New("invalid appointment state transition")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

var clientErrors = []error{
	ErrInvalidRequest,
	ErrInvalidDate,
	ErrPastDate,
	ErrFarFuture,
	ErrOutsideWorkingHours,
	ErrServiceNotFound,
	ErrStaffNotFound,
	ErrSlotConflict,
	ErrAppointmentNotFound,
	ErrInvalidState,
}

// IsClientError reports whether err is a typed, recoverable outcome caused by
// the caller's input rather than by infrastructure.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether a retry with different input may succeed.
func IsConflict(err error) bool {
	return Is(err, ErrSlotConflict)
}
