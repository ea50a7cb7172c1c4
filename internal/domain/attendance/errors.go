package attendance

import "errors"

// Attendance domain errors
var (
	// Punch errors
	ErrDuplicateOpenSession = errors.New("an open session already exists for this employee")
	ErrNoOpenSession        = errors.New("no open session to punch out of")
	ErrOutsideGeofence      = errors.New("you are outside the allowed radius of every assigned outlet")

	// General errors
	ErrSessionNotFound    = errors.New("attendance session not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance session")
	ErrCheckOutBeforeIn   = errors.New("check-out time must be after check-in time")
	ErrSessionStillOpen   = errors.New("session has no check-out time yet")
)
