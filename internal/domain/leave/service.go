package leave

import (
	"context"
	"time"
)

// ConflictResolution describes how an attendance record collided with an
// approved leave and what happened to the leave.
type ConflictResolution struct {
	LeaveID    string
	Resolution string
}

// LeaveService defines business logic for leave requests.
type LeaveService interface {
	// RequestLeave files a new leave request
	RequestLeave(ctx context.Context, req RequestLeaveRequest) (LeaveResponse, error)

	// UpdateStatus approves, rejects or cancels a leave request (admin/manager)
	UpdateStatus(ctx context.Context, req UpdateLeaveStatusRequest) (LeaveResponse, error)

	// GetMyLeaves retrieves leave requests for the authenticated employee
	GetMyLeaves(ctx context.Context, filter LeaveFilter) (ListLeavesResponse, error)

	// ListLeaves retrieves leave requests with filters (admin/manager)
	ListLeaves(ctx context.Context, filter LeaveFilter) (ListLeavesResponse, error)

	// GetLeave retrieves a single leave request by ID
	GetLeave(ctx context.Context, id string) (LeaveResponse, error)

	// ListLeaveTypes retrieves the active leave type directory
	ListLeaveTypes(ctx context.Context) ([]LeaveType, error)

	// BulkUpsert applies a batch of leave records with partial-failure
	// semantics
	BulkUpsert(ctx context.Context, req BulkLeaveRequest) (BulkLeaveResponse, error)
}

// ConflictResolver reconciles attendance written on a day that already has
// an approved leave. Attendance wins: the leave is rejected with an
// appended remark naming the attendance date. Pending requests stay
// pending. Resolving the same day twice is a no-op.
type ConflictResolver interface {
	ResolveAttendanceConflict(ctx context.Context, employeeID string, date time.Time) ([]ConflictResolution, error)

	// ApprovedLeaveOn reports the approved leave for the day, nil when
	// there is none.
	ApprovedLeaveOn(ctx context.Context, employeeID string, date time.Time) (*LeaveRecord, error)
}
