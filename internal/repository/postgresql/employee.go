package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, first_name, last_name, email, role, assigned_outlet_ids,
	reference_photo, punch_in_capture, punch_out_capture,
	is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var role string
	err := row.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &role, &e.AssignedOutletIDs,
		&e.ReferencePhoto, &e.PunchInCapture, &e.PunchOutCapture,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	e.Role = employee.Role(role)
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, pgx.ErrNoRows
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + ` FROM employees ORDER BY first_name, last_name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) setPhoto(ctx context.Context, column, id, path string) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`UPDATE employees SET %s = $2, updated_at = NOW() WHERE id = $1`, column)
	tag, err := q.Exec(ctx, query, id, path)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetReferencePhoto implements employee.EmployeeRepository.
func (r *employeeRepository) SetReferencePhoto(ctx context.Context, id string, path string) error {
	return r.setPhoto(ctx, "reference_photo", id, path)
}

// SetPunchInCapture implements employee.EmployeeRepository.
func (r *employeeRepository) SetPunchInCapture(ctx context.Context, id string, path string) error {
	return r.setPhoto(ctx, "punch_in_capture", id, path)
}

// SetPunchOutCapture implements employee.EmployeeRepository.
func (r *employeeRepository) SetPunchOutCapture(ctx context.Context, id string, path string) error {
	return r.setPhoto(ctx, "punch_out_capture", id, path)
}
