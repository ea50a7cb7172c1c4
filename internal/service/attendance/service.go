package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/identity"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/leave"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/outlet"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/database"
	"github.com/attenda-hq/attendance-backend-go/internal/repository/postgresql"
	"github.com/attenda-hq/attendance-backend-go/internal/service/geofence"
	identitysvc "github.com/attenda-hq/attendance-backend-go/internal/service/identity"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

type SessionServiceImpl struct {
	db *database.DB
	attendance.SessionRepository
	employee.EmployeeRepository
	outlets  outlet.OutletRepository
	geofence *geofence.Verifier
	identity *identitysvc.Verifier
	resolver leave.ConflictResolver
}

func NewSessionService(
	db *database.DB,
	sessions attendance.SessionRepository,
	employees employee.EmployeeRepository,
	outlets outlet.OutletRepository,
	geofenceVerifier *geofence.Verifier,
	identityVerifier *identitysvc.Verifier,
	resolver leave.ConflictResolver,
) attendance.SessionService {
	return &SessionServiceImpl{
		db:                 db,
		SessionRepository:  sessions,
		EmployeeRepository: employees,
		outlets:            outlets,
		geofence:           geofenceVerifier,
		identity:           identityVerifier,
		resolver:           resolver,
	}
}

// inTx runs fn inside a transaction when a pool is configured, otherwise
// directly against the repositories.
func (s *SessionServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, "tx", tx))
	})
}

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

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

func toSessionResponse(s attendance.Session) attendance.SessionResponse {
	resp := attendance.SessionResponse{
		ID:                   s.ID,
		EmployeeID:           s.EmployeeID,
		Date:                 s.Date.Format("2006-01-02"),
		CheckInTime:          s.CheckInTime.UTC().Format(time.RFC3339),
		CheckOutTime:         timePtrToString(s.CheckOutTime),
		CheckInLatitude:      s.CheckInLatitude,
		CheckInLongitude:     s.CheckInLongitude,
		CheckOutLatitude:     s.CheckOutLatitude,
		CheckOutLongitude:    s.CheckOutLongitude,
		WorkedHours:          s.WorkedHours,
		OvertimeHours:        s.OvertimeHours,
		Status:               s.Status,
		PunchInVerification:  string(s.PunchInVerification),
		PunchOutVerification: string(s.PunchOutVerification),
		VerificationNotes:    s.VerificationNotes,
		CreatedAt:            s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            s.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if s.EmployeeName != nil {
		resp.EmployeeName = *s.EmployeeName
	}
	return resp
}

// dayOf truncates a timestamp to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *SessionServiceImpl) loadActiveEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

// PunchIn implements attendance.SessionService.
func (s *SessionServiceImpl) PunchIn(ctx context.Context, req attendance.PunchInRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	employeeID, err := claimsEmployeeID(ctx)
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	if req.EmployeeID != "" && req.EmployeeID != employeeID {
		return attendance.PunchResponse{}, attendance.ErrUnauthorized
	}

	emp, err := s.loadActiveEmployee(ctx, employeeID)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	if open, err := s.SessionRepository.GetOpenSession(ctx, employeeID); err == nil && open.ID != "" {
		return attendance.PunchResponse{}, attendance.ErrDuplicateOpenSession
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return attendance.PunchResponse{}, fmt.Errorf("failed to check open session: %w", err)
	}

	if _, err := s.geofence.Verify(ctx, emp, req.Latitude, req.Longitude); err != nil {
		return attendance.PunchResponse{}, err
	}

	capture, err := io.ReadAll(req.File)
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to read capture photo: %w", err)
	}

	verification, err := s.identity.VerifyPunchIn(ctx, emp, capture, req.FileHeader.Filename)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	nowUTC := time.Now().UTC()
	session := attendance.Session{
		EmployeeID:          employeeID,
		Date:                dayOf(nowUTC),
		CheckInTime:         nowUTC,
		CheckInLatitude:     req.Latitude,
		CheckInLongitude:    req.Longitude,
		Status:              attendance.StatusPresent,
		PunchInVerification: verification.Status,
	}

	var created attendance.Session
	err = s.inTx(ctx, func(txCtx context.Context) error {
		created, err = s.SessionRepository.Create(txCtx, session)
		if err != nil {
			return err
		}
		// Attendance wins over leave: reject any approved leave already
		// filed for this day.
		if _, err := s.resolver.ResolveAttendanceConflict(txCtx, employeeID, session.Date); err != nil {
			return fmt.Errorf("failed to resolve leave conflict: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateOpenSession) {
			return attendance.PunchResponse{}, attendance.ErrDuplicateOpenSession
		}
		return attendance.PunchResponse{}, fmt.Errorf("failed to create session: %w", err)
	}

	message := "Punch-in verified."
	if verification.NewlyEnrolled {
		message = "Reference photo enrolled. Punch-in recorded, pending approval."
	}

	return attendance.PunchResponse{
		Session:      toSessionResponse(created),
		Verification: string(verification.Status),
		MatchScore:   verification.Score,
		Enrolled:     true,
		Message:      message,
	}, nil
}

// PunchOut implements attendance.SessionService.
func (s *SessionServiceImpl) PunchOut(ctx context.Context, req attendance.PunchOutRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	employeeID, err := claimsEmployeeID(ctx)
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	if req.EmployeeID != "" && req.EmployeeID != employeeID {
		return attendance.PunchResponse{}, attendance.ErrUnauthorized
	}

	emp, err := s.loadActiveEmployee(ctx, employeeID)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	session, err := s.SessionRepository.GetOpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.PunchResponse{}, attendance.ErrNoOpenSession
		}
		return attendance.PunchResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	if session.ID == "" {
		return attendance.PunchResponse{}, attendance.ErrNoOpenSession
	}

	if _, err := s.geofence.Verify(ctx, emp, req.Latitude, req.Longitude); err != nil {
		return attendance.PunchResponse{}, err
	}

	capture, err := io.ReadAll(req.File)
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to read capture photo: %w", err)
	}

	verification, err := s.identity.VerifyPunchOut(ctx, emp, capture, req.FileHeader.Filename)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	// A session crossing midnight stays on its check-in date.
	nowUTC := time.Now().UTC()
	session.CheckOutTime = &nowUTC
	session.CheckOutLatitude = &req.Latitude
	session.CheckOutLongitude = &req.Longitude
	session.PunchOutVerification = verification.Status
	session.Recompute()

	if err := s.SessionRepository.Update(ctx, session); err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to close session: %w", err)
	}

	return attendance.PunchResponse{
		Session:      toSessionResponse(session),
		Verification: string(verification.Status),
		MatchScore:   verification.Score,
		Enrolled:     true,
		Message:      "Punch-out verified.",
	}, nil
}

// GetPunchStatus implements attendance.SessionService.
func (s *SessionServiceImpl) GetPunchStatus(ctx context.Context) (attendance.PunchStatusResponse, error) {
	employeeID, err := claimsEmployeeID(ctx)
	if err != nil {
		return attendance.PunchStatusResponse{}, err
	}

	emp, err := s.loadActiveEmployee(ctx, employeeID)
	if err != nil {
		return attendance.PunchStatusResponse{}, err
	}

	resp := attendance.PunchStatusResponse{
		Enrolled:   emp.Enrolled(),
		CanPunchIn: true,
		Message:    "Ready to punch in.",
	}

	session, err := s.SessionRepository.GetOpenSession(ctx, employeeID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return attendance.PunchStatusResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	if err == nil && session.ID != "" {
		sessionResp := toSessionResponse(session)
		resp.HasOpenSession = true
		resp.OpenSession = &sessionResp
		resp.CanPunchIn = false
		resp.CanPunchOut = emp.Enrolled()
		resp.Message = "Open session in progress."
		if !emp.Enrolled() {
			resp.Message = "Open session in progress, enrollment approval required before punch-out."
		}
	}

	return resp, nil
}

// GetMySessions implements attendance.SessionService.
func (s *SessionServiceImpl) GetMySessions(ctx context.Context, filter attendance.SessionFilter) (attendance.ListSessionsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListSessionsResponse{}, err
	}

	employeeID, err := claimsEmployeeID(ctx)
	if err != nil {
		return attendance.ListSessionsResponse{}, err
	}

	sessions, total, err := s.SessionRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListSessionsResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	return buildListResponse(sessions, total, filter), nil
}

// ListSessions implements attendance.SessionService.
func (s *SessionServiceImpl) ListSessions(ctx context.Context, filter attendance.SessionFilter) (attendance.ListSessionsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListSessionsResponse{}, err
	}

	sessions, total, err := s.SessionRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListSessionsResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	return buildListResponse(sessions, total, filter), nil
}

func buildListResponse(sessions []attendance.Session, total int64, filter attendance.SessionFilter) attendance.ListSessionsResponse {
	responses := make([]attendance.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, toSessionResponse(session))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListSessionsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Sessions:   responses,
	}
}

// GetSession implements attendance.SessionService.
func (s *SessionServiceImpl) GetSession(ctx context.Context, id string) (attendance.SessionResponse, error) {
	session, err := s.SessionRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.SessionResponse{}, attendance.ErrSessionNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get session: %w", err)
	}
	return toSessionResponse(session), nil
}

type timesSnapshot struct {
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
}

func snapshotTimes(s attendance.Session) timesSnapshot {
	return timesSnapshot{
		CheckInTime:  s.CheckInTime.UTC().Format(time.RFC3339),
		CheckOutTime: timePtrToString(s.CheckOutTime),
	}
}

// UpdateTimes implements attendance.SessionService.
func (s *SessionServiceImpl) UpdateTimes(ctx context.Context, req attendance.UpdateTimesRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	actor, err := claimsActor(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	session, err := s.SessionRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.SessionResponse{}, attendance.ErrSessionNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	previous := snapshotTimes(session)

	// A corrected direction is vouched for by the corrector, so its
	// verification is forced to verified.
	if req.CheckInTime != nil {
		t, err := time.Parse(time.RFC3339, *req.CheckInTime)
		if err != nil {
			return attendance.SessionResponse{}, fmt.Errorf("invalid check_in_time: %w", err)
		}
		session.CheckInTime = t.UTC()
		session.PunchInVerification = identity.StatusVerified
	}
	if req.CheckOutTime != nil {
		t, err := time.Parse(time.RFC3339, *req.CheckOutTime)
		if err != nil {
			return attendance.SessionResponse{}, fmt.Errorf("invalid check_out_time: %w", err)
		}
		utc := t.UTC()
		session.CheckOutTime = &utc
		session.PunchOutVerification = identity.StatusVerified
	}

	if session.CheckOutTime != nil && !session.CheckOutTime.After(session.CheckInTime) {
		return attendance.SessionResponse{}, attendance.ErrCheckOutBeforeIn
	}

	session.Recompute()

	if err := session.VerificationNotes.Append(
		attendance.AuditKindTimeCorrection, actor, req.Note,
		previous, snapshotTimes(session),
	); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to record audit entry: %w", err)
	}

	if err := s.SessionRepository.Update(ctx, session); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to update session: %w", err)
	}

	return toSessionResponse(session), nil
}

// SetVerification implements attendance.SessionService.
func (s *SessionServiceImpl) SetVerification(ctx context.Context, req attendance.SetVerificationRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	actor, err := claimsActor(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	session, err := s.SessionRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.SessionResponse{}, attendance.ErrSessionNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	newStatus := identity.Status(req.Status)

	var previous identity.Status
	switch req.Phase {
	case attendance.PhasePunchIn:
		previous = session.PunchInVerification
		session.PunchInVerification = newStatus
	case attendance.PhasePunchOut:
		if session.CheckOutTime == nil {
			return attendance.SessionResponse{}, attendance.ErrSessionStillOpen
		}
		previous = session.PunchOutVerification
		session.PunchOutVerification = newStatus
	}

	if err := session.VerificationNotes.Append(
		attendance.AuditKindVerificationOverride, actor, req.Note,
		map[string]string{"phase": req.Phase, "status": string(previous)},
		map[string]string{"phase": req.Phase, "status": req.Status},
	); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to record audit entry: %w", err)
	}

	if err := s.SessionRepository.Update(ctx, session); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to update session: %w", err)
	}

	return toSessionResponse(session), nil
}

// UpdateStatus implements attendance.SessionService.
func (s *SessionServiceImpl) UpdateStatus(ctx context.Context, req attendance.UpdateStatusRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	actor, err := claimsActor(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	session, err := s.SessionRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.SessionResponse{}, attendance.ErrSessionNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	previous := session.Status
	session.Status = strings.ToLower(req.Status)

	if err := session.VerificationNotes.Append(
		attendance.AuditKindStatusOverride, actor, req.Note,
		map[string]string{"status": previous},
		map[string]string{"status": session.Status},
	); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to record audit entry: %w", err)
	}

	if err := s.SessionRepository.Update(ctx, session); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to update session: %w", err)
	}

	return toSessionResponse(session), nil
}

// BulkUpsert implements attendance.SessionService. Employees are applied
// independently, one bad employee never aborts the batch.
func (s *SessionServiceImpl) BulkUpsert(ctx context.Context, req attendance.BulkSessionRequest) (attendance.BulkSessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkSessionResponse{}, err
	}

	actor, err := claimsActor(ctx)
	if err != nil {
		return attendance.BulkSessionResponse{}, err
	}

	site, err := s.outlets.GetByID(ctx, req.OutletID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.BulkSessionResponse{}, outlet.ErrOutletNotFound
		}
		return attendance.BulkSessionResponse{}, fmt.Errorf("failed to get outlet: %w", err)
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	checkIn, err := time.Parse(time.RFC3339, req.CheckInTime)
	if err != nil {
		return attendance.BulkSessionResponse{}, fmt.Errorf("invalid check_in_time: %w", err)
	}

	var checkOut *time.Time
	if req.CheckOutTime != nil {
		t, err := time.Parse(time.RFC3339, *req.CheckOutTime)
		if err != nil {
			return attendance.BulkSessionResponse{}, fmt.Errorf("invalid check_out_time: %w", err)
		}
		utc := t.UTC()
		checkOut = &utc
		if !utc.After(checkIn.UTC()) {
			return attendance.BulkSessionResponse{}, attendance.ErrCheckOutBeforeIn
		}
	}

	resp := attendance.BulkSessionResponse{
		Succeeded:      []string{},
		Failed:         []attendance.BulkFailure{},
		LeaveConflicts: []attendance.BulkLeaveConflict{},
	}

	for _, employeeID := range req.EmployeeIDs {
		if _, err := s.loadActiveEmployee(ctx, employeeID); err != nil {
			resp.Failed = append(resp.Failed, attendance.BulkFailure{
				EmployeeID: employeeID,
				Reason:     err.Error(),
			})
			continue
		}

		// An approved leave wins over the backfill: the employee is
		// skipped, no session is written, the leave stays approved.
		approved, err := s.resolver.ApprovedLeaveOn(ctx, employeeID, date)
		if err != nil {
			resp.Failed = append(resp.Failed, attendance.BulkFailure{
				EmployeeID: employeeID,
				Reason:     err.Error(),
			})
			continue
		}
		if approved != nil {
			resp.LeaveConflicts = append(resp.LeaveConflicts, attendance.BulkLeaveConflict{
				EmployeeID: employeeID,
				LeaveID:    approved.ID,
				Resolution: "skipped",
			})
			continue
		}

		sessionID, err := s.applyBulkEmployee(ctx, actor, employeeID, site, date, checkIn.UTC(), checkOut)
		if err != nil {
			resp.Failed = append(resp.Failed, attendance.BulkFailure{
				EmployeeID: employeeID,
				Reason:     err.Error(),
			})
			continue
		}
		resp.Succeeded = append(resp.Succeeded, sessionID)
	}

	return resp, nil
}

func (s *SessionServiceImpl) applyBulkEmployee(
	ctx context.Context,
	actor string,
	employeeID string,
	site outlet.Outlet,
	date time.Time,
	checkIn time.Time,
	checkOut *time.Time,
) (string, error) {
	var sessionID string

	err := s.inTx(ctx, func(txCtx context.Context) error {
		existing, err := s.SessionRepository.GetByEmployeeAndDate(txCtx, employeeID, date)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to look up existing session: %w", err)
		}

		if existing != nil {
			previous := snapshotTimes(*existing)
			existing.CheckInTime = checkIn
			existing.CheckOutTime = checkOut
			existing.PunchInVerification = identity.StatusVerified
			if checkOut != nil {
				existing.PunchOutVerification = identity.StatusVerified
				existing.CheckOutLatitude = &site.Latitude
				existing.CheckOutLongitude = &site.Longitude
			}
			existing.Recompute()
			if err := existing.VerificationNotes.Append(
				attendance.AuditKindTimeCorrection, actor, "bulk upsert",
				previous, snapshotTimes(*existing),
			); err != nil {
				return fmt.Errorf("failed to record audit entry: %w", err)
			}
			if err := s.SessionRepository.Update(txCtx, *existing); err != nil {
				return fmt.Errorf("failed to update session: %w", err)
			}
			sessionID = existing.ID
		} else {
			session := attendance.Session{
				EmployeeID:          employeeID,
				Date:                date,
				CheckInTime:         checkIn,
				CheckInLatitude:     site.Latitude,
				CheckInLongitude:    site.Longitude,
				CheckOutTime:        checkOut,
				Status:              attendance.StatusPresent,
				PunchInVerification: identity.StatusVerified,
			}
			if checkOut != nil {
				session.PunchOutVerification = identity.StatusVerified
				session.CheckOutLatitude = &site.Latitude
				session.CheckOutLongitude = &site.Longitude
			}
			session.Recompute()

			created, err := s.SessionRepository.Create(txCtx, session)
			if err != nil {
				return err
			}
			sessionID = created.ID
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return sessionID, nil
}
