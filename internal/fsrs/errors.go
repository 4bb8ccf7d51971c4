package fsrs

import "errors"

// Sentinel errors for the fsrs package.
// Use errors.Is to check: errors.Is(err, fsrs.ErrInvalidRating)
var (
	ErrInvalidWeights   = errors.New("fsrs: weights must have exactly 19 entries")
	ErrInvalidRetention = errors.New("fsrs: desired retention out of range (0, 1)")
	ErrInvalidRating    = errors.New("fsrs: invalid rating")
)
