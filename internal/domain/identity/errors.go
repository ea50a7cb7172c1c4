package identity

import "errors"

// Identity verification errors. Mismatch and processing failure are kept
// separate so callers can tell a rejected face from a broken pipeline.
var (
	ErrFaceMismatch   = errors.New("captured face does not match the enrolled reference")
	ErrFaceProcessing = errors.New("face could not be processed")
	ErrNotEnrolled    = errors.New("employee has no enrolled reference photo")
)
