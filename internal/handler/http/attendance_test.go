package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/identity"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/leave"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/outlet"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routerTestSecret = "test-secret-key-for-jwt"

type stubSessionService struct {
	attendance.SessionService
	punchIn func(ctx context.Context, req attendance.PunchInRequest) (attendance.PunchResponse, error)
	list    func(ctx context.Context, filter attendance.SessionFilter) (attendance.ListSessionsResponse, error)
	bulk    func(ctx context.Context, req attendance.BulkSessionRequest) (attendance.BulkSessionResponse, error)
}

func (s *stubSessionService) PunchIn(ctx context.Context, req attendance.PunchInRequest) (attendance.PunchResponse, error) {
	return s.punchIn(ctx, req)
}

func (s *stubSessionService) ListSessions(ctx context.Context, filter attendance.SessionFilter) (attendance.ListSessionsResponse, error) {
	return s.list(ctx, filter)
}

func (s *stubSessionService) BulkUpsert(ctx context.Context, req attendance.BulkSessionRequest) (attendance.BulkSessionResponse, error) {
	return s.bulk(ctx, req)
}

type stubLeaveService struct {
	leave.LeaveService
}

type stubOutletService struct {
	outlet.OutletService
}

type stubEmployeeService struct {
	employee.EmployeeService
}

func newTestRouter(t *testing.T, sessions attendance.SessionService) (http.Handler, jwt.Service) {
	t.Helper()
	JWTService := jwt.NewJWTService(routerTestSecret, "1h")
	router := NewRouter(
		JWTService,
		NewAttendanceHandler(sessions),
		NewLeaveHandler(&stubLeaveService{}),
		NewOutletHandler(&stubOutletService{}),
		NewEmployeeHandler(&stubEmployeeService{}),
		t.TempDir(),
		"test",
	)
	return router, JWTService
}

func accessToken(t *testing.T, JWTService jwt.Service, employeeID string, role employee.Role) string {
	t.Helper()
	token, _, err := JWTService.GenerateAccessToken("user-"+employeeID, employeeID+"@example.com", &employeeID, role)
	require.NoError(t, err)
	return token
}

func punchBody(t *testing.T, data string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("data", data))
	fw, err := mw.CreateFormFile("photo", "capture.jpg")
	require.NoError(t, err)
	_, err = io.Copy(fw, bytes.NewReader([]byte("fake image bytes")))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestPunchIn_Created(t *testing.T) {
	score := 97.5
	router, JWTService := newTestRouter(t, &stubSessionService{
		punchIn: func(ctx context.Context, req attendance.PunchInRequest) (attendance.PunchResponse, error) {
			assert.InDelta(t, -6.2, req.Latitude, 0.0001)
			assert.NotNil(t, req.File)
			return attendance.PunchResponse{
				Verification: string(identity.StatusVerified),
				MatchScore:   &score,
				Enrolled:     true,
				Message:      "Punched in",
			}, nil
		},
	})

	body, contentType := punchBody(t, `{"latitude": -6.2, "longitude": 106.8}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/punch-in", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, JWTService, "emp-1", employee.RoleEmployee))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Verification string `json:"verification"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, string(identity.StatusVerified), resp.Data.Verification)
}

func TestPunchIn_MissingDataField(t *testing.T) {
	router, JWTService := newTestRouter(t, &stubSessionService{})

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("photo", "capture.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/punch-in", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken(t, JWTService, "emp-1", employee.RoleEmployee))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPunchIn_OutsideGeofenceMapsToForbidden(t *testing.T) {
	router, JWTService := newTestRouter(t, &stubSessionService{
		punchIn: func(ctx context.Context, req attendance.PunchInRequest) (attendance.PunchResponse, error) {
			return attendance.PunchResponse{}, attendance.ErrOutsideGeofence
		},
	})

	body, contentType := punchBody(t, `{"latitude": 10.0, "longitude": 10.0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/punch-in", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, JWTService, "emp-1", employee.RoleEmployee))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPunchIn_RequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, &stubSessionService{})

	body, contentType := punchBody(t, `{"latitude": -6.2, "longitude": 106.8}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/punch-in", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListSessions_ManagerOnly(t *testing.T) {
	router, JWTService := newTestRouter(t, &stubSessionService{
		list: func(ctx context.Context, filter attendance.SessionFilter) (attendance.ListSessionsResponse, error) {
			return attendance.ListSessionsResponse{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, JWTService, "emp-1", employee.RoleEmployee))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/attendance", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, JWTService, "mgr-1", employee.RoleManager))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListSessions_FilterParsing(t *testing.T) {
	var got attendance.SessionFilter
	router, JWTService := newTestRouter(t, &stubSessionService{
		list: func(ctx context.Context, filter attendance.SessionFilter) (attendance.ListSessionsResponse, error) {
			got = filter
			return attendance.ListSessionsResponse{}, nil
		},
	})

	target := "/api/v1/attendance?employee_id=emp-7&date=2026-08-01&status=present&open=false&page=2&limit=50&sort_by=check_in_time&sort_order=desc"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, JWTService, "mgr-1", employee.RoleManager))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.EmployeeID)
	assert.Equal(t, "emp-7", *got.EmployeeID)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2026-08-01", *got.Date)
	require.NotNil(t, got.Open)
	assert.False(t, *got.Open)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 50, got.Limit)
	assert.Equal(t, "check_in_time", got.SortBy)
	assert.Equal(t, "desc", got.SortOrder)
}

func TestBulk_ManifestIsPlainSuccess(t *testing.T) {
	router, JWTService := newTestRouter(t, &stubSessionService{
		bulk: func(ctx context.Context, req attendance.BulkSessionRequest) (attendance.BulkSessionResponse, error) {
			return attendance.BulkSessionResponse{
				Succeeded: []string{"sess-1"},
				Failed: []attendance.BulkFailure{
					{EmployeeID: "ghost", Reason: "employee not found"},
				},
			}, nil
		},
	})

	payload := `{"employee_ids":["emp-1","ghost"],"outlet_id":"out-1","date":"2026-08-01","check_in_time":"2026-08-01T09:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/bulk", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken(t, JWTService, "mgr-1", employee.RoleManager))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Succeeded []string                 `json:"succeeded"`
			Failed    []attendance.BulkFailure `json:"failed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.Succeeded, 1)
	assert.Len(t, resp.Data.Failed, 1)
}
