package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/identity"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// openSessionConstraint is the partial unique index that admits at most
// one open session per employee.
const openSessionConstraint = "attendance_sessions_one_open_per_employee"

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	s.id, s.employee_id, s.date,
	s.check_in_time, s.check_in_latitude, s.check_in_longitude,
	s.check_out_time, s.check_out_latitude, s.check_out_longitude,
	s.worked_hours, s.overtime_hours, s.status,
	s.punch_in_verification, s.punch_out_verification, s.verification_notes,
	s.created_at, s.updated_at`

func scanSession(row pgx.Row, withEmployeeName bool) (attendance.Session, error) {
	var s attendance.Session
	var punchIn, punchOut string

	dest := []any{
		&s.ID, &s.EmployeeID, &s.Date,
		&s.CheckInTime, &s.CheckInLatitude, &s.CheckInLongitude,
		&s.CheckOutTime, &s.CheckOutLatitude, &s.CheckOutLongitude,
		&s.WorkedHours, &s.OvertimeHours, &s.Status,
		&punchIn, &punchOut, &s.VerificationNotes,
		&s.CreatedAt, &s.UpdatedAt,
	}
	if withEmployeeName {
		dest = append(dest, &s.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return attendance.Session{}, err
	}

	s.PunchInVerification = identity.Status(punchIn)
	s.PunchOutVerification = identity.Status(punchOut)
	return s, nil
}

// Create implements attendance.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			employee_id, date,
			check_in_time, check_in_latitude, check_in_longitude,
			check_out_time, check_out_latitude, check_out_longitude,
			worked_hours, overtime_hours, status,
			punch_in_verification, punch_out_verification, verification_notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.EmployeeID,
		session.Date,
		session.CheckInTime,
		session.CheckInLatitude,
		session.CheckInLongitude,
		session.CheckOutTime,
		session.CheckOutLatitude,
		session.CheckOutLongitude,
		session.WorkedHours,
		session.OvertimeHours,
		session.Status,
		string(session.PunchInVerification),
		string(session.PunchOutVerification),
		session.VerificationNotes,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == openSessionConstraint {
			return attendance.Session{}, attendance.ErrDuplicateOpenSession
		}
		return attendance.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + sessionColumns + `,
			e.first_name || ' ' || e.last_name AS employee_name
		FROM attendance_sessions s
		LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.id = $1
	`

	session, err := scanSession(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, pgx.ErrNoRows
		}
		return attendance.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// GetOpenSession implements attendance.SessionRepository.
func (r *sessionRepository) GetOpenSession(ctx context.Context, employeeID string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + sessionColumns + `
		FROM attendance_sessions s
		WHERE s.employee_id = $1
		  AND s.check_out_time IS NULL
		ORDER BY s.check_in_time DESC
		LIMIT 1
	`

	session, err := scanSession(q.QueryRow(ctx, query, employeeID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, pgx.ErrNoRows
		}
		return attendance.Session{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return session, nil
}

// GetByEmployeeAndDate implements attendance.SessionRepository.
func (r *sessionRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + sessionColumns + `
		FROM attendance_sessions s
		WHERE s.employee_id = $1
		  AND s.date = $2
		ORDER BY s.check_in_time ASC
		LIMIT 1
	`

	session, err := scanSession(q.QueryRow(ctx, query, employeeID, date), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by employee and date: %w", err)
	}

	return &session, nil
}

// Update implements attendance.SessionRepository.
func (r *sessionRepository) Update(ctx context.Context, session attendance.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions SET
			check_in_time = $2,
			check_out_time = $3,
			check_out_latitude = $4,
			check_out_longitude = $5,
			worked_hours = $6,
			overtime_hours = $7,
			status = $8,
			punch_in_verification = $9,
			punch_out_verification = $10,
			verification_notes = $11,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		session.ID,
		session.CheckInTime,
		session.CheckOutTime,
		session.CheckOutLatitude,
		session.CheckOutLongitude,
		session.WorkedHours,
		session.OvertimeHours,
		session.Status,
		string(session.PunchInVerification),
		string(session.PunchOutVerification),
		session.VerificationNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// List implements attendance.SessionRepository.
func (r *sessionRepository) List(ctx context.Context, filter attendance.SessionFilter) ([]attendance.Session, int64, error) {
	return r.list(ctx, filter, nil)
}

// ListByEmployee implements attendance.SessionRepository.
func (r *sessionRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.SessionFilter) ([]attendance.Session, int64, error) {
	return r.list(ctx, filter, &employeeID)
}

func (r *sessionRepository) list(ctx context.Context, filter attendance.SessionFilter, employeeID *string) ([]attendance.Session, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argPos := 1

	addCondition := func(clause string, value any) {
		conditions = append(conditions, fmt.Sprintf(clause, argPos))
		args = append(args, value)
		argPos++
	}

	if employeeID != nil {
		addCondition("s.employee_id = $%d", *employeeID)
	} else if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		addCondition("s.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Date != nil && *filter.Date != "" {
		addCondition("s.date = $%d", *filter.Date)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		addCondition("s.date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		addCondition("s.date <= $%d", *filter.EndDate)
	}
	if filter.Status != nil && *filter.Status != "" {
		addCondition("s.status = $%d", *filter.Status)
	}
	if filter.Open != nil {
		if *filter.Open {
			conditions = append(conditions, "s.check_out_time IS NULL")
		} else {
			conditions = append(conditions, "s.check_out_time IS NOT NULL")
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM attendance_sessions s " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	// Sort fields come from the validated filter whitelist.
	sortColumn := map[string]string{
		"date":           "s.date",
		"check_in_time":  "s.check_in_time",
		"check_out_time": "s.check_out_time",
		"status":         "s.status",
	}[filter.SortBy]
	if sortColumn == "" {
		sortColumn = "s.date"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT%s,
			e.first_name || ' ' || e.last_name AS employee_name
		FROM attendance_sessions s
		LEFT JOIN employees e ON e.id = s.employee_id
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, sessionColumns, whereClause, sortColumn, sortOrder, argPos, argPos+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		session, err := scanSession(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, total, nil
}
