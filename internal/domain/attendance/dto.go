package attendance

import (
	"mime/multipart"
	"strings"

	"github.com/attenda-hq/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type PunchInRequest struct {
	EmployeeID string                `json:"employee_id"`
	Latitude   float64               `json:"latitude"`
	Longitude  float64               `json:"longitude"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *PunchInRequest) Validate() error {
	return validatePunch(r.Latitude, r.Longitude, r.FileHeader)
}

type PunchOutRequest struct {
	EmployeeID string                `json:"employee_id"`
	Latitude   float64               `json:"latitude"`
	Longitude  float64               `json:"longitude"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *PunchOutRequest) Validate() error {
	return validatePunch(r.Latitude, r.Longitude, r.FileHeader)
}

// employee_id is optional in the payload, it defaults to the
// authenticated employee.
func validatePunch(lat, lon float64, fh *multipart.FileHeader) error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(lat) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(lon) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if fh == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "capture photo is required",
		})
	} else {
		filename := fh.Filename
		idx := strings.LastIndex(filename, ".")
		ext := ""
		if idx >= 0 {
			ext = strings.ToLower(filename[idx:])
		}
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "invalid file type: only jpg, jpeg, png allowed",
			})
		} else if fh.Size > 10<<20 { // 10MB
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "capture photo size must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	Session      SessionResponse `json:"session"`
	Verification string          `json:"verification"`
	MatchScore   *float64        `json:"match_score,omitempty"`
	Enrolled     bool            `json:"enrolled"`
	Message      string          `json:"message"`
}

// ========================================
// SESSION DTOs
// ========================================

type SessionResponse struct {
	ID                   string       `json:"id"`
	EmployeeID           string       `json:"employee_id"`
	EmployeeName         string       `json:"employee_name,omitempty"`
	Date                 string       `json:"date"`
	CheckInTime          string       `json:"check_in_time"`
	CheckOutTime         *string      `json:"check_out_time,omitempty"`
	CheckInLatitude      float64      `json:"check_in_latitude"`
	CheckInLongitude     float64      `json:"check_in_longitude"`
	CheckOutLatitude     *float64     `json:"check_out_latitude,omitempty"`
	CheckOutLongitude    *float64     `json:"check_out_longitude,omitempty"`
	WorkedHours          float64      `json:"worked_hours"`
	OvertimeHours        float64      `json:"overtime_hours"`
	Status               string       `json:"status"`
	PunchInVerification  string       `json:"punch_in_verification"`
	PunchOutVerification string       `json:"punch_out_verification,omitempty"`
	VerificationNotes    []AuditEntry `json:"verification_notes,omitempty"`
	CreatedAt            string       `json:"created_at"`
	UpdatedAt            string       `json:"updated_at"`
}

type ListSessionsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Sessions   []SessionResponse `json:"sessions"`
}

type SessionFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`
	Open       *bool   `json:"open,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *SessionFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(ValidStatuses, ", "),
		})
	}

	for field, value := range map[string]*string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "check_in_time", "check_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, check_in_time, check_out_time, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchStatusResponse struct {
	HasOpenSession  bool             `json:"has_open_session"`
	OpenSession     *SessionResponse `json:"open_session,omitempty"`
	Enrolled        bool             `json:"enrolled"`
	CanPunchIn      bool             `json:"can_punch_in"`
	CanPunchOut     bool             `json:"can_punch_out"`
	Message         string           `json:"message"`
}

// ========================================
// CORRECTION DTOs
// ========================================

// UpdateTimesRequest lets a manager correct check times on a closed or
// open session. Derived fields are recomputed and the change is audited.
type UpdateTimesRequest struct {
	ID           string  `json:"-"`
	CheckInTime  *string `json:"check_in_time,omitempty"`  // RFC3339
	CheckOutTime *string `json:"check_out_time,omitempty"` // RFC3339
	Note         string  `json:"note,omitempty"`
}

func (r *UpdateTimesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CheckInTime == nil && r.CheckOutTime == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "at least one of check_in_time or check_out_time is required",
		})
	}

	if r.CheckInTime != nil {
		if _, valid := validator.IsValidDateTime(*r.CheckInTime); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be an ISO8601 timestamp",
			})
		}
	}

	if r.CheckOutTime != nil {
		if _, valid := validator.IsValidDateTime(*r.CheckOutTime); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Verification phases for manual overrides.
const (
	PhasePunchIn  = "punch_in"
	PhasePunchOut = "punch_out"
)

// SetVerificationRequest lets a manager override the verification outcome
// of a punch, e.g. approving a pending first-enrollment punch.
type SetVerificationRequest struct {
	ID     string `json:"-"`
	Phase  string `json:"phase"`  // punch_in, punch_out
	Status string `json:"status"` // verified, rejected
	Note   string `json:"note,omitempty"`
}

func (r *SetVerificationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Phase, []string{PhasePunchIn, PhasePunchOut}) {
		errs = append(errs, validator.ValidationError{
			Field:   "phase",
			Message: "phase must be one of: punch_in, punch_out",
		})
	}

	if !validator.IsInSlice(r.Status, []string{"verified", "rejected"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: verified, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateStatusRequest lets a manager override the session status, the only
// way a session becomes late or absent.
type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(strings.ToLower(r.Status), ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(ValidStatuses, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// BULK DTOs
// ========================================

// BulkSessionRequest backfills attendance for a set of employees who all
// worked the same outlet on the same date with the same times. An
// administrative path: geofence and identity checks are skipped and both
// verifications are forced to verified.
type BulkSessionRequest struct {
	EmployeeIDs  []string `json:"employee_ids"`
	OutletID     string   `json:"outlet_id"`
	Date         string   `json:"date"`          // YYYY-MM-DD
	CheckInTime  string   `json:"check_in_time"` // RFC3339
	CheckOutTime *string  `json:"check_out_time,omitempty"`
}

func (r *BulkSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_ids",
			Message: "employee_ids must not be empty",
		})
	}

	if validator.IsEmpty(r.OutletID) {
		errs = append(errs, validator.ValidationError{
			Field:   "outlet_id",
			Message: "outlet_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if _, valid := validator.IsValidDateTime(r.CheckInTime); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time must be an ISO8601 timestamp",
		})
	}

	if r.CheckOutTime != nil {
		if _, valid := validator.IsValidDateTime(*r.CheckOutTime); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BulkFailure identifies one employee the batch could not be applied to.
type BulkFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// BulkLeaveConflict identifies an employee who was skipped because an
// approved leave already covers the day. The leave is left untouched.
type BulkLeaveConflict struct {
	EmployeeID string `json:"employee_id"`
	LeaveID    string `json:"leave_id"`
	Resolution string `json:"resolution"`
}

// BulkSessionResponse is the partial-failure manifest. The request as a
// whole always succeeds at the transport level.
type BulkSessionResponse struct {
	Succeeded      []string            `json:"succeeded"`
	Failed         []BulkFailure       `json:"failed"`
	LeaveConflicts []BulkLeaveConflict `json:"leave_conflicts"`
}
