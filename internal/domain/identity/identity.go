package identity

import "context"

// Status is the verification outcome attached to a punch.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// MatchResult is the outcome of comparing a captured photo against a
// reference photo.
type MatchResult struct {
	Matched bool
	Score   float64
}

// Matcher compares two face images. Implementations wrap an external
// recognition service.
type Matcher interface {
	// Compare matches the face in capture against the face in reference.
	// A processing failure (unreadable image, no face detected, service
	// unavailable) returns an error distinct from a clean non-match.
	Compare(ctx context.Context, reference []byte, capture []byte) (MatchResult, error)
}
