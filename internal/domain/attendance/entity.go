package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/identity"
)

// Attendance status values. Half day and overtime are derived from worked
// hours on punch-out; late and absent are only ever set by a manual
// override, and on-leave by leave approval.
const (
	StatusPresent = "present"
	StatusHalfDay = "half_day"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusOnLeave = "on_leave"
)

// ValidStatuses lists every status a manual override may set.
var ValidStatuses = []string{StatusPresent, StatusHalfDay, StatusLate, StatusAbsent, StatusOnLeave}

const (
	halfDayThresholdHours  = 4.0
	overtimeThresholdHours = 8.0
)

// Session is a single punch-in/punch-out cycle for one employee.
type Session struct {
	ID                   string
	EmployeeID           string
	Date                 time.Time
	CheckInTime          time.Time
	CheckInLatitude      float64
	CheckInLongitude     float64
	CheckOutTime         *time.Time
	CheckOutLatitude     *float64
	CheckOutLongitude    *float64
	WorkedHours          float64
	OvertimeHours        float64
	Status               string
	PunchInVerification  identity.Status
	PunchOutVerification identity.Status
	VerificationNotes    AuditTrail
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// DTO
	EmployeeName *string
}

// Open reports whether the session has not been punched out yet.
func (s *Session) Open() bool {
	return s.CheckOutTime == nil
}

// Recompute derives worked hours, overtime and status from the check
// times. It never touches a manually assigned late/absent/on-leave
// status, those survive time corrections.
func (s *Session) Recompute() {
	if s.CheckOutTime == nil {
		s.WorkedHours = 0
		s.OvertimeHours = 0
		return
	}

	hours := s.CheckOutTime.Sub(s.CheckInTime).Hours()
	if hours < 0 {
		hours = 0
	}
	s.WorkedHours = round2(hours)

	manual := s.Status == StatusLate || s.Status == StatusAbsent || s.Status == StatusOnLeave

	switch {
	case s.WorkedHours < halfDayThresholdHours:
		s.OvertimeHours = 0
		if !manual {
			s.Status = StatusHalfDay
		}
	case s.WorkedHours > overtimeThresholdHours:
		s.OvertimeHours = round2(s.WorkedHours - overtimeThresholdHours)
		if !manual {
			s.Status = StatusPresent
		}
	default:
		s.OvertimeHours = 0
		if !manual {
			s.Status = StatusPresent
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Audit entry kinds.
const (
	AuditKindTimeCorrection       = "time_correction"
	AuditKindVerificationOverride = "verification_override"
	AuditKindStatusOverride       = "status_override"
)

// AuditEntry records one manual change to a session. Original holds the
// value the session had before the first change of this kind and is
// carried forward on later entries.
type AuditEntry struct {
	Kind        string          `json:"kind"`
	CorrectedBy string          `json:"corrected_by"`
	Original    json.RawMessage `json:"original"`
	Previous    json.RawMessage `json:"previous"`
	New         json.RawMessage `json:"new"`
	Note        string          `json:"note,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// AuditTrail is the append-only JSONB audit column.
type AuditTrail []AuditEntry

// Append adds an entry, preserving the original value from the first
// entry of the same kind.
func (t *AuditTrail) Append(kind, correctedBy, note string, previous, next interface{}) error {
	prevRaw, err := json.Marshal(previous)
	if err != nil {
		return err
	}
	newRaw, err := json.Marshal(next)
	if err != nil {
		return err
	}

	original := json.RawMessage(prevRaw)
	for _, e := range *t {
		if e.Kind == kind {
			original = e.Original
			break
		}
	}

	*t = append(*t, AuditEntry{
		Kind:        kind,
		CorrectedBy: correctedBy,
		Original:    original,
		Previous:    prevRaw,
		New:         newRaw,
		Note:        note,
		Timestamp:   time.Now().UTC(),
	})
	return nil
}

// OriginalFor returns the pre-correction value for the given kind, or nil
// if the session was never corrected that way.
func (t AuditTrail) OriginalFor(kind string) json.RawMessage {
	for _, e := range t {
		if e.Kind == kind {
			return e.Original
		}
	}
	return nil
}

// Value implements driver.Valuer for database storage
func (t AuditTrail) Value() (driver.Value, error) {
	if len(t) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for database retrieval
func (t *AuditTrail) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan AuditTrail: invalid type")
	}

	return json.Unmarshal(bytes, t)
}
