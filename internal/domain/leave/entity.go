package leave

import "time"

// Leave request status values.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

var ValidStatuses = []string{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

// LeaveType is a directory entry, e.g. annual leave or sick leave.
type LeaveType struct {
	ID        string
	Name      string
	Code      *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveRecord is a single-day leave request. ActionBy/ActionAt record who
// decided the request and when; Remarks carries the decision note,
// including automatic rejections from attendance conflicts.
type LeaveRecord struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Date        time.Time
	Reason      string
	Status      string
	Remarks     *string
	ActionBy    *string
	ActionAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	EmployeeName  *string
	LeaveTypeName *string
}

// Decided reports whether the request has left the pending state.
func (r *LeaveRecord) Decided() bool {
	return r.Status != StatusPending
}
