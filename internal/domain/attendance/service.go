package attendance

import (
	"context"
)

// SessionService defines business logic for attendance sessions.
type SessionService interface {
	// PunchIn opens a session after geofence and identity checks
	PunchIn(ctx context.Context, req PunchInRequest) (PunchResponse, error)

	// PunchOut closes the open session and derives worked hours
	PunchOut(ctx context.Context, req PunchOutRequest) (PunchResponse, error)

	// GetPunchStatus reports what the authenticated employee can do next
	GetPunchStatus(ctx context.Context) (PunchStatusResponse, error)

	// GetMySessions retrieves sessions for the authenticated employee
	GetMySessions(ctx context.Context, filter SessionFilter) (ListSessionsResponse, error)

	// ListSessions retrieves sessions with filters (admin/manager)
	ListSessions(ctx context.Context, filter SessionFilter) (ListSessionsResponse, error)

	// GetSession retrieves a single session by ID
	GetSession(ctx context.Context, id string) (SessionResponse, error)

	// UpdateTimes corrects check times on a session (admin/manager)
	UpdateTimes(ctx context.Context, req UpdateTimesRequest) (SessionResponse, error)

	// SetVerification overrides a punch verification outcome (admin/manager)
	SetVerification(ctx context.Context, req SetVerificationRequest) (SessionResponse, error)

	// UpdateStatus overrides the session status (admin/manager)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (SessionResponse, error)

	// BulkUpsert applies a batch of session records with partial-failure
	// semantics, resolving leave conflicts per record
	BulkUpsert(ctx context.Context, req BulkSessionRequest) (BulkSessionResponse, error)
}
