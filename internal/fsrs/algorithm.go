package fsrs

import "math"

// Constants of the FSRS v5 forgetting curve. Factor is chosen so that
// retrievability is exactly 0.9 when elapsed days equal stability:
// R(s, s) = (1 + 19/81)^-0.5 = 0.9.
const (
	Decay  = -0.5
	Factor = 19.0 / 81.0

	// DefaultRetention is the recall probability targeted when
	// deriving the next interval.
	DefaultRetention = 0.9

	// MinStability is the floor applied to every stability value.
	MinStability = 0.1
)

// Retrievability returns the modeled probability of recall after
// elapsedDays at the given stability: R(t, S) = (1 + Factor*t/S)^Decay.
// It is 1.0 at t=0 and 0.9 at t=S.
func Retrievability(elapsedDays, stability float64) float64 {
	if elapsedDays <= 0 {
		return 1.0
	}
	if stability < MinStability {
		stability = MinStability
	}
	return math.Pow(1+Factor*elapsedDays/stability, Decay)
}

// initStability returns S0(G) = max(0.1, w[G-1]).
func (s *Scheduler) initStability(r Rating) float64 {
	return clampStability(s.w[r-1])
}

// initDifficulty returns D0(G) = w[2] + (G-3)*w[3] + w[4].
// When clamp is true the result is clamped to [1, 10]; the raw value
// serves as the mean-reversion target in nextDifficulty.
func (s *Scheduler) initDifficulty(r Rating, clamp bool) float64 {
	d := s.w[2] + float64(r-3)*s.w[3] + s.w[4]
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextInterval returns the interval in days at which retrievability
// will have decayed to the desired retention:
//
//	I(S) = S / Factor * (retention^(1/Decay) - 1)
//
// Rounded to whole days, never less than 1. At the default retention
// of 0.9 this reduces to I(S) = round(S).
func (s *Scheduler) nextInterval(stability float64) int {
	ivl := stability / Factor * (math.Pow(s.desiredRetention, 1.0/Decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	return days
}

// nextRecallStability computes stability after a successful review
// (Hard, Good or Easy):
//
//	S' = S * (1 + e^w[8] * (11-D) * S^(-w[9]) * (e^(w[10]*(1-R)) - 1)
//	        * e^(w[15]*(1-hardPenalty)) * e^(w[16]*easyBonus))
//
// The (1-R) term makes the gain largest when the card was nearly
// forgotten and small when it was reviewed early.
func (s *Scheduler) nextRecallStability(d, st, r float64, rating Rating) float64 {
	hardPenalty := 0.0
	if rating == Hard {
		hardPenalty = 1.0
	}
	easyBonus := 0.0
	if rating == Easy {
		easyBonus = 1.0
	}
	next := st * (1 + math.Exp(s.w[8])*
		(11-d)*
		math.Pow(st, -s.w[9])*
		(math.Exp(s.w[10]*(1-r))-1)*
		math.Exp(s.w[15]*(1-hardPenalty))*
		math.Exp(s.w[16]*easyBonus))
	return clampStability(next)
}

// nextForgetStability computes stability after a lapse (Again):
//
//	S' = w[11] * D^(-w[12]) * ((S+1)^w[13] - 1) * e^(w[14]*(1-R))
//
// The prior stability feeds the (S+1) term, so a lapse shrinks the
// memory trace without resetting it.
func (s *Scheduler) nextForgetStability(d, st, r float64) float64 {
	next := s.w[11] *
		math.Pow(d, -s.w[12]) *
		(math.Pow(st+1, s.w[13]) - 1) *
		math.Exp(s.w[14]*(1-r))
	return clampStability(next)
}

// nextDifficulty applies mean reversion toward the baseline D0(Good):
//
//	D' = w[7]*D0(Good) + (1-w[7])*(D - w[6]*(G-3))
func (s *Scheduler) nextDifficulty(d float64, rating Rating) float64 {
	target := s.initDifficulty(Good, false)
	next := s.w[7]*target + (1-s.w[7])*(d-s.w[6]*float64(rating-3))
	return clampDifficulty(next)
}

// clampStability clamps stability to MinStability.
func clampStability(s float64) float64 {
	return math.Max(s, MinStability)
}

// clampDifficulty clamps difficulty to [1, 10].
func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
