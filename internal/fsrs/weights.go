package fsrs

import "fmt"

// NumWeights is the length of an FSRS v5 weight vector.
const NumWeights = 19

// DefaultWeights returns the FSRS v5 default weights, fitted across a
// large population of learners. The slice is a fresh copy each call.
func DefaultWeights() []float64 {
	return []float64{
		0.4072, 1.1829, 3.1262, 15.4722, // w[0..3]  initial stability S0(G)
		7.2102, 0.5316, 1.0651, 0.0234, // w[4..7]  difficulty init and mean reversion
		1.616, 0.1544, 1.0826, 1.9813, // w[8..11] recall and lapse stability
		0.0953, 0.2975, 2.2042, 0.2407, // w[12..15] lapse shape and hard penalty
		2.9466, 0.5034, 0.6567, // w[16..18] easy bonus, short-term terms
	}
}

// LowerBounds and UpperBounds bracket each weight during optimization.
// They constrain the training search space, not Scheduler construction.
var LowerBounds = []float64{
	0.01, 0.01, 0.01, 0.01,
	0.1, 0.01, 0.01, 0.0,
	0.0, 0.0, 0.01, 0.01,
	0.01, 0.01, 0.01, 0.0,
	0.0, 0.0, 0.0,
}

// UpperBounds is the per-index maximum; see LowerBounds.
var UpperBounds = []float64{
	100.0, 100.0, 100.0, 100.0,
	100.0, 10.0, 5.0, 0.75,
	4.5, 0.8, 3.5, 5.0,
	0.25, 0.9, 4.0, 1.0,
	6.0, 2.0, 2.0,
}

// ValidateWeights checks that w is a well-formed weight vector.
// The only structural requirement is the exact length.
func ValidateWeights(w []float64) error {
	if len(w) != NumWeights {
		return fmt.Errorf("%w: got %d", ErrInvalidWeights, len(w))
	}
	return nil
}
