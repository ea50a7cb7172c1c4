package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/identity"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/leave"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/outlet"
	"github.com/attenda-hq/attendance-backend-go/internal/service/geofence"
	identitysvc "github.com/attenda-hq/attendance-backend-go/internal/service/identity"
	leavesvc "github.com/attenda-hq/attendance-backend-go/internal/service/leave"
)

// ========================================
// FAKES
// ========================================

type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   int
	sessions map[string]*attendance.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*attendance.Session{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s.CheckOutTime == nil {
		for _, existing := range f.sessions {
			if existing.EmployeeID == s.EmployeeID && existing.CheckOutTime == nil {
				return attendance.Session{}, attendance.ErrDuplicateOpenSession
			}
		}
	}

	f.nextID++
	s.ID = fmt.Sprintf("sess-%d", f.nextID)
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	copied := s
	f.sessions[s.ID] = &copied
	return s, nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return attendance.Session{}, pgx.ErrNoRows
	}
	return *s, nil
}

func (f *fakeSessionRepo) GetOpenSession(ctx context.Context, employeeID string) (attendance.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.EmployeeID == employeeID && s.CheckOutTime == nil {
			return *s, nil
		}
	}
	return attendance.Session{}, pgx.ErrNoRows
}

func (f *fakeSessionRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.EmployeeID == employeeID && s.Date.Equal(date) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, s attendance.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.UpdatedAt = time.Now().UTC()
	copied := s
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeSessionRepo) List(ctx context.Context, filter attendance.SessionFilter) ([]attendance.Session, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []attendance.Session
	for _, s := range f.sessions {
		if filter.EmployeeID != nil && s.EmployeeID != *filter.EmployeeID {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (f *fakeSessionRepo) ListByEmployee(ctx context.Context, employeeID string, filter attendance.SessionFilter) ([]attendance.Session, int64, error) {
	filter.EmployeeID = &employeeID
	return f.List(ctx, filter)
}

func (f *fakeSessionRepo) openCount(employeeID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, s := range f.sessions {
		if s.EmployeeID == employeeID && s.CheckOutTime == nil {
			count++
		}
	}
	return count
}

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]*employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, pgx.ErrNoRows
	}
	return *e, nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) SetReferencePhoto(ctx context.Context, id string, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees[id].ReferencePhoto = &path
	return nil
}

func (f *fakeEmployeeRepo) SetPunchInCapture(ctx context.Context, id string, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees[id].PunchInCapture = &path
	return nil
}

func (f *fakeEmployeeRepo) SetPunchOutCapture(ctx context.Context, id string, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees[id].PunchOutCapture = &path
	return nil
}

type fakeOutletRepo struct {
	outlets map[string]outlet.Outlet
}

func (f *fakeOutletRepo) GetByID(ctx context.Context, id string) (outlet.Outlet, error) {
	o, ok := f.outlets[id]
	if !ok {
		return outlet.Outlet{}, outlet.ErrOutletNotFound
	}
	return o, nil
}

func (f *fakeOutletRepo) GetByIDs(ctx context.Context, ids []string) ([]outlet.Outlet, error) {
	var result []outlet.Outlet
	for _, id := range ids {
		if o, ok := f.outlets[id]; ok {
			result = append(result, o)
		}
	}
	return result, nil
}

func (f *fakeOutletRepo) List(ctx context.Context) ([]outlet.Outlet, error) {
	return nil, nil
}

type fakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (f *fakeStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = data
	return path, nil
}

func (f *fakeStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("file not found: " + path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error { return nil }

func (f *fakeStorage) GetURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return path, nil
}

func (f *fakeStorage) Exists(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok, nil
}

type fakeMatcher struct {
	mu     sync.Mutex
	result identity.MatchResult
	err    error
	calls  int
}

func (m *fakeMatcher) Compare(ctx context.Context, reference []byte, capture []byte) (identity.MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return identity.MatchResult{}, m.err
	}
	return m.result, nil
}

type fakeLeaveRepo struct {
	mu     sync.Mutex
	nextID int
	leaves map[string]*leave.LeaveRecord
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{leaves: map[string]*leave.LeaveRecord{}}
}

func (f *fakeLeaveRepo) Create(ctx context.Context, r leave.LeaveRecord) (leave.LeaveRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.ID = fmt.Sprintf("leave-%d", f.nextID)
	copied := r
	f.leaves[r.ID] = &copied
	return r, nil
}

func (f *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.leaves[id]
	if !ok {
		return leave.LeaveRecord{}, pgx.ErrNoRows
	}
	return *r, nil
}

func (f *fakeLeaveRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]leave.LeaveRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []leave.LeaveRecord
	for _, r := range f.leaves {
		if r.EmployeeID == employeeID && r.Date.Equal(date) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeLeaveRepo) Update(ctx context.Context, r leave.LeaveRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leaves[r.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := r
	f.leaves[r.ID] = &copied
	return nil
}

func (f *fakeLeaveRepo) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []leave.LeaveRecord
	for _, r := range f.leaves {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

type fakeLeaveTypeRepo struct{}

func (fakeLeaveTypeRepo) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	if id != "annual" {
		return leave.LeaveType{}, pgx.ErrNoRows
	}
	return leave.LeaveType{ID: "annual", Name: "Annual Leave", IsActive: true}, nil
}

func (fakeLeaveTypeRepo) List(ctx context.Context) ([]leave.LeaveType, error) {
	return []leave.LeaveType{{ID: "annual", Name: "Annual Leave", IsActive: true}}, nil
}

// ========================================
// HELPERS
// ========================================

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func newCapture(content string) (multipart.File, *multipart.FileHeader) {
	return memFile{bytes.NewReader([]byte(content))}, &multipart.FileHeader{
		Filename: "selfie.jpg",
		Size:     int64(len(content)),
	}
}

func authCtx(t *testing.T, employeeID string) context.Context {
	t.Helper()
	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := auth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"user_id":     "user-" + employeeID,
		"role":        "manager",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fixture struct {
	service   attendance.SessionService
	sessions  *fakeSessionRepo
	employees *fakeEmployeeRepo
	leaves    *fakeLeaveRepo
	storage   *fakeStorage
	matcher   *fakeMatcher
}

func newFixture() *fixture {
	sessions := newFakeSessionRepo()
	employees := &fakeEmployeeRepo{employees: map[string]*employee.Employee{
		"emp-1": {
			ID: "emp-1", FirstName: "Ayu", IsActive: true,
			AssignedOutletIDs: []string{"hq"},
		},
		"emp-2": {
			ID: "emp-2", FirstName: "Budi", IsActive: true,
			AssignedOutletIDs: []string{"hq"},
		},
	}}
	outlets := &fakeOutletRepo{outlets: map[string]outlet.Outlet{
		"hq": {
			ID: "hq", Latitude: -6.2000, Longitude: 106.8000,
			RadiusMeters: 100, IsActive: true,
		},
	}}
	files := &fakeStorage{files: map[string][]byte{}}
	matcher := &fakeMatcher{result: identity.MatchResult{Matched: true, Score: 97.5}}
	leaves := newFakeLeaveRepo()

	resolver := leavesvc.NewLeaveService(leaves, fakeLeaveTypeRepo{}, sessions, employees)

	svc := NewSessionService(
		nil,
		sessions,
		employees,
		outlets,
		geofence.NewVerifier(outlets),
		identitysvc.NewVerifier(employees, files, matcher),
		resolver,
	)

	return &fixture{
		service:   svc,
		sessions:  sessions,
		employees: employees,
		leaves:    leaves,
		storage:   files,
		matcher:   matcher,
	}
}

func (f *fixture) enroll(employeeID string) {
	path := "ref-" + employeeID + ".jpg"
	f.storage.files[path] = []byte("reference-bytes")
	f.employees.employees[employeeID].ReferencePhoto = &path
}

func punchInReq(employeeID string) attendance.PunchInRequest {
	file, header := newCapture("capture-bytes")
	return attendance.PunchInRequest{
		EmployeeID: employeeID,
		Latitude:   -6.2000,
		Longitude:  106.8000,
		File:       file,
		FileHeader: header,
	}
}

func punchOutReq(employeeID string) attendance.PunchOutRequest {
	file, header := newCapture("capture-bytes")
	return attendance.PunchOutRequest{
		EmployeeID: employeeID,
		Latitude:   -6.2000,
		Longitude:  106.8000,
		File:       file,
		FileHeader: header,
	}
}

// ========================================
// PUNCH IN
// ========================================

func TestPunchIn_AutoEnroll(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "emp-1")

	resp, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Verification)
	assert.Nil(t, resp.MatchScore)
	assert.Contains(t, resp.Message, "enrolled")
	assert.Zero(t, f.matcher.calls)

	session, err := f.sessions.GetOpenSession(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, identity.StatusPending, session.PunchInVerification)
	assert.Equal(t, attendance.StatusPresent, session.Status)
}

func TestPunchIn_EnrolledVerified(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	ctx := authCtx(t, "emp-1")

	resp, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)

	assert.Equal(t, "verified", resp.Verification)
	require.NotNil(t, resp.MatchScore)
	assert.InDelta(t, 97.5, *resp.MatchScore, 0.001)
	assert.Equal(t, 1, f.matcher.calls)
}

func TestPunchIn_DuplicateOpenSession(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)

	_, err = f.service.PunchIn(ctx, punchInReq("emp-1"))
	assert.ErrorIs(t, err, attendance.ErrDuplicateOpenSession)
	assert.Equal(t, 1, f.sessions.openCount("emp-1"))
}

func TestPunchIn_OutsideGeofence(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	ctx := authCtx(t, "emp-1")

	req := punchInReq("emp-1")
	req.Latitude = -6.5000

	_, err := f.service.PunchIn(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrOutsideGeofence)
	assert.Zero(t, f.matcher.calls, "identity check must not run for an out-of-fence punch")
	assert.Zero(t, f.sessions.openCount("emp-1"))
}

func TestPunchIn_FaceMismatch(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	f.matcher.result = identity.MatchResult{Matched: false}
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	assert.ErrorIs(t, err, identity.ErrFaceMismatch)
	assert.Zero(t, f.sessions.openCount("emp-1"))
}

func TestPunchIn_ProcessingFailure(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	f.matcher.err = identity.ErrFaceProcessing
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	assert.ErrorIs(t, err, identity.ErrFaceProcessing)
	assert.NotErrorIs(t, err, identity.ErrFaceMismatch)
	assert.Zero(t, f.sessions.openCount("emp-1"))
}

func TestPunchIn_RejectsConflictingLeave(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	ctx := authCtx(t, "emp-1")

	today := time.Now().UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	approved, err := f.leaves.Create(ctx, leave.LeaveRecord{
		EmployeeID: "emp-1", LeaveTypeID: "annual",
		Date: today, Status: leave.StatusApproved, Reason: "holiday",
	})
	require.NoError(t, err)

	_, err = f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)

	resolved, err := f.leaves.GetByID(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resolved.Status)
	require.NotNil(t, resolved.Remarks)
	assert.Contains(t, *resolved.Remarks, "attendance")
}

func TestPunchIn_OtherEmployeeForbidden(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchIn(ctx, punchInReq("emp-2"))
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestPunchIn_InactiveEmployee(t *testing.T) {
	f := newFixture()
	f.employees.employees["emp-1"].IsActive = false
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestPunchIn_Concurrent(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	ctx := authCtx(t, "emp-1")

	const attempts = 10
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, attendance.ErrDuplicateOpenSession)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.sessions.openCount("emp-1"))
}

// ========================================
// PUNCH OUT
// ========================================

func TestPunchOut_NoOpenSession(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchOut(ctx, punchOutReq("emp-1"))
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestPunchOut_RequiresEnrollment(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "emp-1")

	// First punch auto-enrolls, drop the reference afterwards to simulate
	// an employee whose enrollment was revoked.
	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)
	f.employees.employees["emp-1"].ReferencePhoto = nil

	_, err = f.service.PunchOut(ctx, punchOutReq("emp-1"))
	assert.ErrorIs(t, err, identity.ErrNotEnrolled)
}

func TestPunchOut_DerivesWorkedHours(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)

	// Backdate the check-in to get nine and a half hours on the clock.
	open, err := f.sessions.GetOpenSession(ctx, "emp-1")
	require.NoError(t, err)
	open.CheckInTime = time.Now().UTC().Add(-9*time.Hour - 30*time.Minute)
	require.NoError(t, f.sessions.Update(ctx, open))

	resp, err := f.service.PunchOut(ctx, punchOutReq("emp-1"))
	require.NoError(t, err)

	assert.InDelta(t, 9.5, resp.Session.WorkedHours, 0.01)
	assert.InDelta(t, 1.5, resp.Session.OvertimeHours, 0.01)
	assert.Equal(t, attendance.StatusPresent, resp.Session.Status)
	assert.Equal(t, "verified", resp.Session.PunchOutVerification)

	assert.Zero(t, f.sessions.openCount("emp-1"))
}

func TestPunchOut_ShortSessionIsHalfDay(t *testing.T) {
	f := newFixture()
	f.enroll("emp-1")
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)

	open, err := f.sessions.GetOpenSession(ctx, "emp-1")
	require.NoError(t, err)
	open.CheckInTime = time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, f.sessions.Update(ctx, open))

	resp, err := f.service.PunchOut(ctx, punchOutReq("emp-1"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, resp.Session.Status)
	assert.Equal(t, 0.0, resp.Session.OvertimeHours)
}

// ========================================
// CORRECTIONS
// ========================================

func seedClosedSession(t *testing.T, f *fixture, employeeID string) attendance.Session {
	t.Helper()
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)
	session := attendance.Session{
		EmployeeID:           employeeID,
		Date:                 time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckInTime:          checkIn,
		CheckOutTime:         &checkOut,
		Status:               attendance.StatusPresent,
		PunchInVerification:  identity.StatusVerified,
		PunchOutVerification: identity.StatusVerified,
	}
	session.Recompute()
	created, err := f.sessions.Create(context.Background(), session)
	require.NoError(t, err)
	return created
}

func TestUpdateTimes_RecomputesAndAudits(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "mgr")
	session := seedClosedSession(t, f, "emp-1")

	newCheckOut := "2025-03-10T19:00:00Z"
	resp, err := f.service.UpdateTimes(ctx, attendance.UpdateTimesRequest{
		ID:           session.ID,
		CheckOutTime: &newCheckOut,
		Note:         "forgot to punch out",
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, resp.WorkedHours)
	assert.Equal(t, 2.0, resp.OvertimeHours)
	require.Len(t, resp.VerificationNotes, 1)
	entry := resp.VerificationNotes[0]
	assert.Equal(t, attendance.AuditKindTimeCorrection, entry.Kind)
	assert.Equal(t, "user-mgr", entry.CorrectedBy)
	assert.Equal(t, "forgot to punch out", entry.Note)
}

func TestUpdateTimes_PreservesOriginalAcrossCorrections(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "mgr")
	session := seedClosedSession(t, f, "emp-1")

	first := "2025-03-10T18:00:00Z"
	_, err := f.service.UpdateTimes(ctx, attendance.UpdateTimesRequest{ID: session.ID, CheckOutTime: &first})
	require.NoError(t, err)

	second := "2025-03-10T18:30:00Z"
	resp, err := f.service.UpdateTimes(ctx, attendance.UpdateTimesRequest{ID: session.ID, CheckOutTime: &second})
	require.NoError(t, err)

	require.Len(t, resp.VerificationNotes, 2)
	// Both entries carry the untouched original checkout of 17:00.
	assert.Contains(t, string(resp.VerificationNotes[0].Original), "17:00:00Z")
	assert.Contains(t, string(resp.VerificationNotes[1].Original), "17:00:00Z")
	assert.Contains(t, string(resp.VerificationNotes[1].Previous), "18:00:00Z")
}

func TestUpdateTimes_RejectsInvertedTimes(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "mgr")
	session := seedClosedSession(t, f, "emp-1")

	bad := "2025-03-10T08:00:00Z"
	_, err := f.service.UpdateTimes(ctx, attendance.UpdateTimesRequest{ID: session.ID, CheckOutTime: &bad})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeIn)
}

func TestUpdateTimes_ForcesVerificationOnCorrectedDirection(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "emp-1")

	// Auto-enrollment leaves the punch-in pending.
	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)
	session, err := f.sessions.GetOpenSession(ctx, "emp-1")
	require.NoError(t, err)
	require.Equal(t, identity.StatusPending, session.PunchInVerification)

	mgrCtx := authCtx(t, "mgr")
	newCheckIn := "2025-03-10T08:30:00Z"
	resp, err := f.service.UpdateTimes(mgrCtx, attendance.UpdateTimesRequest{
		ID:          session.ID,
		CheckInTime: &newCheckIn,
		Note:        "badge reader clock was wrong",
	})
	require.NoError(t, err)

	assert.Equal(t, string(identity.StatusVerified), resp.PunchInVerification,
		"a corrected check-in is vouched for by the corrector")
	assert.Empty(t, resp.PunchOutVerification, "the uncorrected direction keeps its state")
}

func TestSetVerification_ApprovesPendingPunch(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)
	session, err := f.sessions.GetOpenSession(ctx, "emp-1")
	require.NoError(t, err)

	mgrCtx := authCtx(t, "mgr")
	resp, err := f.service.SetVerification(mgrCtx, attendance.SetVerificationRequest{
		ID:     session.ID,
		Phase:  attendance.PhasePunchIn,
		Status: "verified",
		Note:   "enrollment approved",
	})
	require.NoError(t, err)

	assert.Equal(t, "verified", resp.PunchInVerification)
	require.Len(t, resp.VerificationNotes, 1)
	assert.Equal(t, attendance.AuditKindVerificationOverride, resp.VerificationNotes[0].Kind)
}

func TestSetVerification_PunchOutPhaseNeedsClosedSession(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "emp-1")

	_, err := f.service.PunchIn(ctx, punchInReq("emp-1"))
	require.NoError(t, err)
	session, err := f.sessions.GetOpenSession(ctx, "emp-1")
	require.NoError(t, err)

	_, err = f.service.SetVerification(authCtx(t, "mgr"), attendance.SetVerificationRequest{
		ID:     session.ID,
		Phase:  attendance.PhasePunchOut,
		Status: "verified",
	})
	assert.ErrorIs(t, err, attendance.ErrSessionStillOpen)
}

func TestUpdateStatus_ManualOverrideSurvivesCorrection(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "mgr")
	session := seedClosedSession(t, f, "emp-1")

	_, err := f.service.UpdateStatus(ctx, attendance.UpdateStatusRequest{
		ID:     session.ID,
		Status: attendance.StatusLate,
		Note:   "arrived after shift start",
	})
	require.NoError(t, err)

	newCheckOut := "2025-03-10T19:00:00Z"
	resp, err := f.service.UpdateTimes(ctx, attendance.UpdateTimesRequest{ID: session.ID, CheckOutTime: &newCheckOut})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusLate, resp.Status, "manual status must survive a time correction")
	assert.Equal(t, 10.0, resp.WorkedHours)
}

func TestUpdateStatus_UnknownSession(t *testing.T) {
	f := newFixture()
	_, err := f.service.UpdateStatus(authCtx(t, "mgr"), attendance.UpdateStatusRequest{
		ID:     "missing",
		Status: attendance.StatusAbsent,
	})
	assert.ErrorIs(t, err, attendance.ErrSessionNotFound)
}

// ========================================
// BULK
// ========================================

func TestBulkUpsert_PartialFailure(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "mgr")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := f.leaves.Create(ctx, leave.LeaveRecord{
		EmployeeID: "emp-2", LeaveTypeID: "annual",
		Date: date, Status: leave.StatusApproved, Reason: "holiday",
	})
	require.NoError(t, err)

	checkOut := "2025-03-10T17:00:00Z"
	req := attendance.BulkSessionRequest{
		EmployeeIDs:  []string{"emp-1", "ghost", "emp-2"},
		OutletID:     "hq",
		Date:         "2025-03-10",
		CheckInTime:  "2025-03-10T09:00:00Z",
		CheckOutTime: &checkOut,
	}

	resp, err := f.service.BulkUpsert(ctx, req)
	require.NoError(t, err, "bulk always succeeds at the call level")

	require.Len(t, resp.Succeeded, 1, "the unknown employee and the leave conflict must not block emp-1")
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "ghost", resp.Failed[0].EmployeeID)
	assert.Contains(t, resp.Failed[0].Reason, "not found")
	require.Len(t, resp.LeaveConflicts, 1)
	assert.Equal(t, "emp-2", resp.LeaveConflicts[0].EmployeeID)
}

func TestBulkUpsert_RejectsBadBatchInput(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "mgr")

	badOut := "2025-03-10T06:00:00Z"
	_, err := f.service.BulkUpsert(ctx, attendance.BulkSessionRequest{
		EmployeeIDs:  []string{"emp-1"},
		OutletID:     "hq",
		Date:         "2025-03-10",
		CheckInTime:  "2025-03-10T09:00:00Z",
		CheckOutTime: &badOut,
	})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeIn)

	_, err = f.service.BulkUpsert(ctx, attendance.BulkSessionRequest{
		EmployeeIDs: []string{"emp-1"},
		OutletID:    "nowhere",
		Date:        "2025-03-10",
		CheckInTime: "2025-03-10T09:00:00Z",
	})
	assert.ErrorIs(t, err, outlet.ErrOutletNotFound)
}

func TestBulkUpsert_ReportsLeaveConflicts(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "mgr")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	approved, err := f.leaves.Create(ctx, leave.LeaveRecord{
		EmployeeID: "emp-1", LeaveTypeID: "annual",
		Date: date, Status: leave.StatusApproved, Reason: "holiday",
	})
	require.NoError(t, err)

	checkOut := "2025-03-10T17:00:00Z"
	resp, err := f.service.BulkUpsert(ctx, attendance.BulkSessionRequest{
		EmployeeIDs:  []string{"emp-1"},
		OutletID:     "hq",
		Date:         "2025-03-10",
		CheckInTime:  "2025-03-10T09:00:00Z",
		CheckOutTime: &checkOut,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Succeeded, "a leave-conflicted employee is skipped, not written")
	assert.Empty(t, resp.Failed)
	require.Len(t, resp.LeaveConflicts, 1)
	assert.Equal(t, "emp-1", resp.LeaveConflicts[0].EmployeeID)
	assert.Equal(t, approved.ID, resp.LeaveConflicts[0].LeaveID)
	assert.Equal(t, "skipped", resp.LeaveConflicts[0].Resolution)

	session, err := f.sessions.GetByEmployeeAndDate(ctx, "emp-1", date)
	require.NoError(t, err)
	assert.Nil(t, session, "no session may exist for the skipped employee")

	record, err := f.leaves.GetByID(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, record.Status, "the approved leave is left intact")
}

func TestBulkUpsert_UpdatesExistingSession(t *testing.T) {
	f := newFixture()
	ctx := authCtx(t, "mgr")
	session := seedClosedSession(t, f, "emp-1")

	checkOut := "2025-03-10T20:00:00Z"
	resp, err := f.service.BulkUpsert(ctx, attendance.BulkSessionRequest{
		EmployeeIDs:  []string{"emp-1"},
		OutletID:     "hq",
		Date:         "2025-03-10",
		CheckInTime:  "2025-03-10T09:00:00Z",
		CheckOutTime: &checkOut,
	})
	require.NoError(t, err)

	require.Len(t, resp.Succeeded, 1)
	assert.Equal(t, session.ID, resp.Succeeded[0], "existing session is updated, not duplicated")

	updated, err := f.sessions.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 11.0, updated.WorkedHours)
	assert.NotEmpty(t, updated.VerificationNotes)
}
