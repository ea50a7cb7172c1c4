package employee

type EmployeeResponse struct {
	ID                string   `json:"id"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	FullName          string   `json:"full_name"`
	Email             string   `json:"email"`
	Role              string   `json:"role"`
	AssignedOutletIDs []string `json:"assigned_outlet_ids"`
	Enrolled          bool     `json:"enrolled"`
	IsActive          bool     `json:"is_active"`
	CreatedAt         string   `json:"created_at"`
}

type ListEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	Total     int                `json:"total"`
}
