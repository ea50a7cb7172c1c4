package employee

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Employee is a person who punches attendance. Photo fields hold storage
// paths, not raw image bytes.
type Employee struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	Role              Role
	AssignedOutletIDs []string
	ReferencePhoto    *string
	PunchInCapture    *string
	PunchOutCapture   *string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Enrolled reports whether the employee has a reference photo on file.
func (e *Employee) Enrolled() bool {
	return e.ReferencePhoto != nil && *e.ReferencePhoto != ""
}
