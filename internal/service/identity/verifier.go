package identity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/identity"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// Result is the outcome of a punch verification.
type Result struct {
	Status        identity.Status
	Score         *float64
	NewlyEnrolled bool
}

// Verifier runs the enrollment and face-match flow for punches.
type Verifier struct {
	employees employee.EmployeeRepository
	files     storage.FileStorage
	matcher   identity.Matcher
}

func NewVerifier(employees employee.EmployeeRepository, files storage.FileStorage, matcher identity.Matcher) *Verifier {
	return &Verifier{
		employees: employees,
		files:     files,
		matcher:   matcher,
	}
}

// VerifyPunchIn verifies the capture against the employee's reference
// photo. An unenrolled employee is auto-enrolled: the capture becomes the
// reference and the punch stays pending until a manager approves it.
func (v *Verifier) VerifyPunchIn(ctx context.Context, emp employee.Employee, capture []byte, filename string) (Result, error) {
	if !emp.Enrolled() {
		refPath, err := v.store(ctx, emp.ID, "reference", filename, capture)
		if err != nil {
			return Result{}, fmt.Errorf("failed to store reference photo: %w", err)
		}
		if err := v.employees.SetReferencePhoto(ctx, emp.ID, refPath); err != nil {
			return Result{}, fmt.Errorf("failed to enroll employee: %w", err)
		}

		capPath, err := v.store(ctx, emp.ID, "punch_in", filename, capture)
		if err != nil {
			return Result{}, fmt.Errorf("failed to store punch-in capture: %w", err)
		}
		if err := v.employees.SetPunchInCapture(ctx, emp.ID, capPath); err != nil {
			return Result{}, fmt.Errorf("failed to record punch-in capture: %w", err)
		}

		return Result{Status: identity.StatusPending, NewlyEnrolled: true}, nil
	}

	score, err := v.match(ctx, emp, capture)
	if err != nil {
		return Result{}, err
	}

	// The capture is persisted only after the match succeeds, a rejected
	// face never overwrites the previous capture.
	capPath, err := v.store(ctx, emp.ID, "punch_in", filename, capture)
	if err != nil {
		return Result{}, fmt.Errorf("failed to store punch-in capture: %w", err)
	}
	if err := v.employees.SetPunchInCapture(ctx, emp.ID, capPath); err != nil {
		return Result{}, fmt.Errorf("failed to record punch-in capture: %w", err)
	}

	return Result{Status: identity.StatusVerified, Score: &score}, nil
}

// VerifyPunchOut verifies the capture for a punch-out. There is no
// auto-enroll path here, an unenrolled employee cannot punch out.
func (v *Verifier) VerifyPunchOut(ctx context.Context, emp employee.Employee, capture []byte, filename string) (Result, error) {
	if !emp.Enrolled() {
		return Result{}, identity.ErrNotEnrolled
	}

	score, err := v.match(ctx, emp, capture)
	if err != nil {
		return Result{}, err
	}

	capPath, err := v.store(ctx, emp.ID, "punch_out", filename, capture)
	if err != nil {
		return Result{}, fmt.Errorf("failed to store punch-out capture: %w", err)
	}
	if err := v.employees.SetPunchOutCapture(ctx, emp.ID, capPath); err != nil {
		return Result{}, fmt.Errorf("failed to record punch-out capture: %w", err)
	}

	return Result{Status: identity.StatusVerified, Score: &score}, nil
}

// match reads the reference photo and compares the capture against it.
func (v *Verifier) match(ctx context.Context, emp employee.Employee, capture []byte) (float64, error) {
	reference, err := storage.ReadBytes(ctx, v.files, *emp.ReferencePhoto)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read reference photo: %v", identity.ErrFaceProcessing, err)
	}

	result, err := v.matcher.Compare(ctx, reference, capture)
	if err != nil {
		if errors.Is(err, identity.ErrFaceProcessing) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", identity.ErrFaceProcessing, err)
	}

	if !result.Matched {
		return 0, identity.ErrFaceMismatch
	}

	return result.Score, nil
}

// store writes the image under the per-employee layout: reference photos
// under reference_photos/, punch captures under daily_selfies/ split by
// direction.
func (v *Verifier) store(ctx context.Context, employeeID, kind, filename string, data []byte) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}

	contentType := "image/jpeg"
	if ext == ".png" {
		contentType = "image/png"
	}

	var prefix string
	switch kind {
	case "reference":
		prefix = path.Join("reference_photos", employeeID)
	case "punch_in":
		prefix = path.Join("daily_selfies", employeeID, "punchin")
	default:
		prefix = path.Join("daily_selfies", employeeID, "punchout")
	}

	key := path.Join(prefix, uuid.NewString()+ext)
	return v.files.Upload(ctx, bytes.NewReader(data), key, contentType)
}
