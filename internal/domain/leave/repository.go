package leave

import (
	"context"
	"time"
)

// LeaveRepository defines data access methods for leave requests.
type LeaveRepository interface {
	// Create inserts a new leave request
	Create(ctx context.Context, record LeaveRecord) (LeaveRecord, error)

	// GetByID retrieves a leave request by ID
	GetByID(ctx context.Context, id string) (LeaveRecord, error)

	// GetByEmployeeAndDate retrieves leave requests for an employee on a date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]LeaveRecord, error)

	// Update updates an existing leave request
	Update(ctx context.Context, record LeaveRecord) error

	// List retrieves leave requests with filters and pagination
	List(ctx context.Context, filter LeaveFilter) ([]LeaveRecord, int64, error)
}

// LeaveTypeRepository defines data access methods for the leave type
// directory.
type LeaveTypeRepository interface {
	// GetByID retrieves a leave type by ID
	GetByID(ctx context.Context, id string) (LeaveType, error)

	// List retrieves all active leave types
	List(ctx context.Context) ([]LeaveType, error)
}
