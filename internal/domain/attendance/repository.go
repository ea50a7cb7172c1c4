package attendance

import (
	"context"
	"time"
)

// SessionRepository defines data access methods for attendance sessions.
type SessionRepository interface {
	// Create inserts a new session. A second open session for the same
	// employee fails with ErrDuplicateOpenSession.
	Create(ctx context.Context, session Session) (Session, error)

	// GetByID retrieves a session by ID
	GetByID(ctx context.Context, id string) (Session, error)

	// GetOpenSession retrieves the employee's open session, if any
	GetOpenSession(ctx context.Context, employeeID string) (Session, error)

	// GetByEmployeeAndDate retrieves the session for an employee on a date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Session, error)

	// Update updates an existing session
	Update(ctx context.Context, session Session) error

	// List retrieves sessions with filters and pagination
	List(ctx context.Context, filter SessionFilter) ([]Session, int64, error)

	// ListByEmployee retrieves sessions for one employee
	ListByEmployee(ctx context.Context, employeeID string, filter SessionFilter) ([]Session, int64, error)
}
