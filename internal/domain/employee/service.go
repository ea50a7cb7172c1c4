package employee

import "context"

// EmployeeService defines directory reads over employees.
type EmployeeService interface {
	// GetMe retrieves the authenticated employee's profile
	GetMe(ctx context.Context) (EmployeeResponse, error)

	// Get retrieves an employee by ID (admin/manager)
	Get(ctx context.Context, id string) (EmployeeResponse, error)

	// List retrieves the employee directory (admin/manager)
	List(ctx context.Context) (ListEmployeesResponse, error)
}
