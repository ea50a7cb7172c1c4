package leave

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/leave"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

// conflictResolvedBy marks automatic rejections in the action trail.
const conflictResolvedBy = "system"

type LeaveServiceImpl struct {
	leave.LeaveRepository
	leave.LeaveTypeRepository
	sessions  attendance.SessionRepository
	employees employee.EmployeeRepository
}

func NewLeaveService(
	leaves leave.LeaveRepository,
	leaveTypes leave.LeaveTypeRepository,
	sessions attendance.SessionRepository,
	employees employee.EmployeeRepository,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		LeaveRepository:     leaves,
		LeaveTypeRepository: leaveTypes,
		sessions:            sessions,
		employees:           employees,
	}
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)
var _ leave.ConflictResolver = (*LeaveServiceImpl)(nil)

func claimsEmployeeID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}
	return employeeID, nil
}

func claimsActor(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, nil
	}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		return employeeID, nil
	}
	return "", fmt.Errorf("no usable actor claim in context")
}

func toLeaveResponse(r leave.LeaveRecord) leave.LeaveResponse {
	resp := leave.LeaveResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		LeaveTypeID: r.LeaveTypeID,
		Date:        r.Date.Format("2006-01-02"),
		Reason:      r.Reason,
		Status:      r.Status,
		Remarks:     r.Remarks,
		ActionBy:    r.ActionBy,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if r.ActionAt != nil {
		formatted := r.ActionAt.UTC().Format(time.RFC3339)
		resp.ActionAt = &formatted
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if r.LeaveTypeName != nil {
		resp.LeaveTypeName = *r.LeaveTypeName
	}
	return resp
}

// RequestLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) RequestLeave(ctx context.Context, req leave.RequestLeaveRequest) (leave.LeaveResponse, error) {
	if req.EmployeeID == "" {
		employeeID, err := claimsEmployeeID(ctx)
		if err != nil {
			return leave.LeaveResponse{}, err
		}
		req.EmployeeID = employeeID
	}

	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveResponse{}, employee.ErrEmployeeNotFound
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveResponse{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if !leaveType.IsActive {
		return leave.LeaveResponse{}, leave.ErrLeaveTypeNotFound
	}

	// A day with recorded attendance cannot also be a leave day.
	existing, err := s.sessions.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveResponse{}, fmt.Errorf("failed to check attendance: %w", err)
	}
	if existing != nil {
		return leave.LeaveResponse{}, leave.ErrAttendanceExists
	}

	records, err := s.LeaveRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveResponse{}, fmt.Errorf("failed to check existing leave: %w", err)
	}
	for _, r := range records {
		if r.Status == leave.StatusPending || r.Status == leave.StatusApproved {
			return leave.LeaveResponse{}, leave.ErrLeaveAlreadyRequested
		}
	}

	created, err := s.LeaveRepository.Create(ctx, leave.LeaveRecord{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		Date:        date,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return toLeaveResponse(created), nil
}

// UpdateStatus implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateStatus(ctx context.Context, req leave.UpdateLeaveStatusRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	actor, err := claimsActor(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	record, err := s.LeaveRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveResponse{}, leave.ErrLeaveNotFound
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if record.Decided() {
		return leave.LeaveResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	newStatus := strings.ToLower(req.Status)

	if newStatus == leave.StatusApproved {
		existing, err := s.sessions.GetByEmployeeAndDate(ctx, record.EmployeeID, record.Date)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveResponse{}, fmt.Errorf("failed to check attendance: %w", err)
		}
		if existing != nil {
			return leave.LeaveResponse{}, leave.ErrAttendanceExists
		}
	}

	now := time.Now().UTC()
	record.Status = newStatus
	record.Remarks = req.Remarks
	record.ActionBy = &actor
	record.ActionAt = &now

	if err := s.LeaveRepository.Update(ctx, record); err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return toLeaveResponse(record), nil
}

// GetMyLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) GetMyLeaves(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeavesResponse, error) {
	employeeID, err := claimsEmployeeID(ctx)
	if err != nil {
		return leave.ListLeavesResponse{}, err
	}
	filter.EmployeeID = &employeeID

	return s.ListLeaves(ctx, filter)
}

// ListLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaves(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeavesResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeavesResponse{}, err
	}

	records, total, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeavesResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toLeaveResponse(r))
	}

	return leave.ListLeavesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Leaves:     responses,
	}, nil
}

// GetLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeave(ctx context.Context, id string) (leave.LeaveResponse, error) {
	record, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveResponse{}, leave.ErrLeaveNotFound
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return toLeaveResponse(record), nil
}

// ListLeaveTypes implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error) {
	types, err := s.LeaveTypeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	return types, nil
}

// BulkUpsert implements leave.LeaveService. Employees are applied
// independently, one bad employee never aborts the batch.
func (s *LeaveServiceImpl) BulkUpsert(ctx context.Context, req leave.BulkLeaveRequest) (leave.BulkLeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BulkLeaveResponse{}, err
	}

	actor, err := claimsActor(ctx)
	if err != nil {
		return leave.BulkLeaveResponse{}, err
	}

	if _, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.BulkLeaveResponse{}, leave.ErrLeaveTypeNotFound
		}
		return leave.BulkLeaveResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	date, _ := parseDate(req.Date)

	resp := leave.BulkLeaveResponse{
		Succeeded: []string{},
		Failed:    []leave.BulkLeaveFailure{},
	}

	for _, employeeID := range req.EmployeeIDs {
		id, err := s.applyBulkGrant(ctx, actor, employeeID, req.LeaveTypeID, date, req.Remarks)
		if err != nil {
			resp.Failed = append(resp.Failed, leave.BulkLeaveFailure{
				EmployeeID: employeeID,
				Reason:     err.Error(),
			})
			continue
		}
		resp.Succeeded = append(resp.Succeeded, id)
	}

	return resp, nil
}

func (s *LeaveServiceImpl) applyBulkGrant(ctx context.Context, actor, employeeID, leaveTypeID string, date time.Time, remarks string) (string, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", employee.ErrEmployeeNotFound
		}
		return "", fmt.Errorf("failed to get employee: %w", err)
	}

	// Attendance wins: never backfill leave onto a worked day.
	existing, err := s.sessions.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("failed to check attendance: %w", err)
	}
	if existing != nil {
		return "", leave.ErrAttendanceExists
	}

	records, err := s.LeaveRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("failed to check existing leave: %w", err)
	}
	for _, r := range records {
		if r.Status == leave.StatusPending || r.Status == leave.StatusApproved {
			return "", leave.ErrLeaveAlreadyRequested
		}
	}

	record := leave.LeaveRecord{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Date:        date,
		Reason:      remarks,
		Status:      leave.StatusApproved,
	}
	now := time.Now().UTC()
	record.ActionBy = &actor
	record.ActionAt = &now
	if remarks != "" {
		record.Remarks = &remarks
	}

	created, err := s.LeaveRepository.Create(ctx, record)
	if err != nil {
		return "", fmt.Errorf("failed to create leave record: %w", err)
	}

	return created.ID, nil
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

// ApprovedLeaveOn implements leave.ConflictResolver.
func (s *LeaveServiceImpl) ApprovedLeaveOn(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRecord, error) {
	records, err := s.LeaveRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load leave requests: %w", err)
	}
	for _, record := range records {
		if record.Status == leave.StatusApproved {
			r := record
			return &r, nil
		}
	}
	return nil, nil
}

// ResolveAttendanceConflict implements leave.ConflictResolver. Approved
// leave on the day is rejected with an appended remark naming the
// attendance date; pending requests are left for their human reviewer.
// Calling it again for the same day changes nothing.
func (s *LeaveServiceImpl) ResolveAttendanceConflict(ctx context.Context, employeeID string, date time.Time) ([]leave.ConflictResolution, error) {
	records, err := s.LeaveRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load leave requests: %w", err)
	}

	var resolutions []leave.ConflictResolution
	now := time.Now().UTC()

	for _, record := range records {
		if record.Status != leave.StatusApproved {
			continue
		}

		actionBy := conflictResolvedBy
		remark := fmt.Sprintf("automatically rejected: attendance was recorded for %s", date.Format("2006-01-02"))
		if record.Remarks != nil && *record.Remarks != "" {
			remark = *record.Remarks + "; " + remark
		}
		record.Status = leave.StatusRejected
		record.Remarks = &remark
		record.ActionBy = &actionBy
		record.ActionAt = &now

		if err := s.LeaveRepository.Update(ctx, record); err != nil {
			return resolutions, fmt.Errorf("failed to reject conflicting leave: %w", err)
		}

		resolutions = append(resolutions, leave.ConflictResolution{
			LeaveID:    record.ID,
			Resolution: "rejected",
		})
	}

	return resolutions, nil
}
