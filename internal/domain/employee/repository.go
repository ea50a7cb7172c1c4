package employee

import "context"

// EmployeeRepository defines data access methods for employees.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id string) (Employee, error)

	// List retrieves all employees, active and inactive
	List(ctx context.Context) ([]Employee, error)

	// SetReferencePhoto stores the enrollment reference photo path
	SetReferencePhoto(ctx context.Context, id string, path string) error

	// SetPunchInCapture stores the latest punch-in capture path
	SetPunchInCapture(ctx context.Context, id string, path string) error

	// SetPunchOutCapture stores the latest punch-out capture path
	SetPunchOutCapture(ctx context.Context, id string, path string) error
}
