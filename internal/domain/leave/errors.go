package leave

import "errors"

var (
	ErrLeaveNotFound         = errors.New("leave request not found")
	ErrLeaveTypeNotFound     = errors.New("leave type not found")
	ErrLeaveAlreadyProcessed = errors.New("leave request already processed")
	ErrLeaveAlreadyRequested = errors.New("a pending or approved leave already exists for this date")
	ErrAttendanceExists      = errors.New("attendance already recorded for this date")
)
