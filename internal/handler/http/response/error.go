package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/identity"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/leave"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/outlet"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicateOpenSession):
		Conflict(w, "An open session already exists")
	case errors.Is(err, attendance.ErrNoOpenSession):
		Conflict(w, "No open session to punch out of")
	case errors.Is(err, attendance.ErrOutsideGeofence):
		Forbidden(w, "You are outside the allowed radius of every assigned outlet")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this attendance session")
	case errors.Is(err, attendance.ErrCheckOutBeforeIn):
		BadRequest(w, "Check-out time must be after check-in time", nil)
	case errors.Is(err, attendance.ErrSessionStillOpen):
		Conflict(w, "Session has no check-out time yet")

	// Identity verification errors. A mismatch and a processing failure
	// are distinct outcomes on the wire.
	case errors.Is(err, identity.ErrFaceMismatch):
		Forbidden(w, "Captured face does not match the enrolled reference")
	case errors.Is(err, identity.ErrFaceProcessing):
		UnprocessableEntity(w, "FACE_PROCESSING_FAILED", "Face could not be processed, try again with a clearer photo")
	case errors.Is(err, identity.ErrNotEnrolled):
		Conflict(w, "No enrolled reference photo on file, contact an administrator")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is inactive")
	case errors.Is(err, employee.ErrNoAssignedOutlet):
		Forbidden(w, "Employee has no assigned outlet")

	// Outlet domain errors
	case errors.Is(err, outlet.ErrOutletNotFound):
		NotFound(w, "Outlet not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrLeaveAlreadyRequested):
		Conflict(w, "A pending or approved leave already exists for this date")
	case errors.Is(err, leave.ErrAttendanceExists):
		Conflict(w, "Attendance already recorded for this date")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
