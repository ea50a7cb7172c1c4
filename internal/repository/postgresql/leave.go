package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/leave"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveColumns = `
	l.id, l.employee_id, l.leave_type_id, l.date, l.reason,
	l.status, l.remarks, l.action_by, l.action_at,
	l.created_at, l.updated_at`

func scanLeave(row pgx.Row, withNames bool) (leave.LeaveRecord, error) {
	var r leave.LeaveRecord
	dest := []any{
		&r.ID, &r.EmployeeID, &r.LeaveTypeID, &r.Date, &r.Reason,
		&r.Status, &r.Remarks, &r.ActionBy, &r.ActionAt,
		&r.CreatedAt, &r.UpdatedAt,
	}
	if withNames {
		dest = append(dest, &r.EmployeeName, &r.LeaveTypeName)
	}
	if err := row.Scan(dest...); err != nil {
		return leave.LeaveRecord{}, err
	}
	return r, nil
}

// Create implements leave.LeaveRepository.
func (r *leaveRepository) Create(ctx context.Context, record leave.LeaveRecord) (leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_records (
			employee_id, leave_type_id, date, reason, status, remarks, action_by, action_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.LeaveTypeID,
		record.Date,
		record.Reason,
		record.Status,
		record.Remarks,
		record.ActionBy,
		record.ActionAt,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return leave.LeaveRecord{}, fmt.Errorf("failed to create leave record: %w", err)
	}

	return record, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + leaveColumns + `,
			e.first_name || ' ' || e.last_name AS employee_name,
			t.name AS leave_type_name
		FROM leave_records l
		LEFT JOIN employees e ON e.id = l.employee_id
		LEFT JOIN leave_types t ON t.id = l.leave_type_id
		WHERE l.id = $1
	`

	record, err := scanLeave(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRecord{}, pgx.ErrNoRows
		}
		return leave.LeaveRecord{}, fmt.Errorf("failed to get leave record: %w", err)
	}

	return record, nil
}

// GetByEmployeeAndDate implements leave.LeaveRepository.
func (r *leaveRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + leaveColumns + `
		FROM leave_records l
		WHERE l.employee_id = $1 AND l.date = $2
		ORDER BY l.created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave records: %w", err)
	}
	defer rows.Close()

	var records []leave.LeaveRecord
	for rows.Next() {
		record, err := scanLeave(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave records: %w", err)
	}

	return records, nil
}

// Update implements leave.LeaveRepository.
func (r *leaveRepository) Update(ctx context.Context, record leave.LeaveRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_records SET
			status = $2,
			remarks = $3,
			action_by = $4,
			action_at = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.Status,
		record.Remarks,
		record.ActionBy,
		record.ActionAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// List implements leave.LeaveRepository.
func (r *leaveRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argPos := 1

	addCondition := func(clause string, value any) {
		conditions = append(conditions, fmt.Sprintf(clause, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		addCondition("l.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil && *filter.Status != "" {
		addCondition("l.status = $%d", *filter.Status)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		addCondition("l.date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		addCondition("l.date <= $%d", *filter.EndDate)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM leave_records l " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave records: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT%s,
			e.first_name || ' ' || e.last_name AS employee_name,
			t.name AS leave_type_name
		FROM leave_records l
		LEFT JOIN employees e ON e.id = l.employee_id
		LEFT JOIN leave_types t ON t.id = l.leave_type_id
		%s
		ORDER BY l.date DESC, l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, leaveColumns, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave records: %w", err)
	}
	defer rows.Close()

	var records []leave.LeaveRecord
	for rows.Next() {
		record, err := scanLeave(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leave records: %w", err)
	}

	return records, total, nil
}
