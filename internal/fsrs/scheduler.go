package fsrs

import (
	"fmt"
	"time"
)

// Config configures a Scheduler. The zero value selects the default
// weights and a desired retention of 0.9.
type Config struct {
	// Weights is the 19-entry FSRS v5 weight vector. Nil selects
	// DefaultWeights().
	Weights []float64 `json:"weights,omitempty"`

	// DesiredRetention is the recall probability targeted when
	// scheduling the next review. Zero selects DefaultRetention.
	DesiredRetention float64 `json:"desired_retention,omitempty"`
}

// Scheduler computes card state transitions using the FSRS v5
// algorithm. It is immutable after construction and safe for
// concurrent use.
type Scheduler struct {
	w                []float64
	desiredRetention float64
}

// NewScheduler creates a Scheduler from the given config. It returns
// ErrInvalidWeights if the weight vector does not have exactly
// NumWeights entries, and ErrInvalidRetention if the desired retention
// lies outside (0, 1). Configuration problems surface here, never
// during a review.
func NewScheduler(cfg Config) (*Scheduler, error) {
	w := cfg.Weights
	if w == nil {
		w = DefaultWeights()
	}
	if err := ValidateWeights(w); err != nil {
		return nil, err
	}

	dr := cfg.DesiredRetention
	if dr == 0 {
		dr = DefaultRetention
	}
	if dr <= 0 || dr >= 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRetention, dr)
	}

	s := &Scheduler{
		w:                make([]float64, NumWeights),
		desiredRetention: dr,
	}
	copy(s.w, w)
	return s, nil
}

// Weights returns a copy of the scheduler's weight vector.
func (s *Scheduler) Weights() []float64 {
	out := make([]float64, NumWeights)
	copy(out, s.w)
	return out
}

// ReviewCard processes a review at the given time and returns the
// updated card and a review log. The input card is not mutated.
//
// A new card is seeded from its first rating and moves to Learning
// (Again) or Review (otherwise). On later reviews the stability update
// depends on the outcome: Again applies the lapse formula, increments
// Lapses and moves the card to Relearning; any other rating applies
// the recall formula and moves it to Review. Difficulty then drifts
// toward its baseline. The next interval targets the configured
// retention and due is always now plus that interval.
//
// Returns ErrInvalidRating for ratings outside Again..Easy; no state
// is computed in that case.
func (s *Scheduler) ReviewCard(card Card, rating Rating, now time.Time) (Card, ReviewLog, error) {
	if !rating.IsValid() {
		return Card{}, ReviewLog{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	c := card

	c.ElapsedDays = 0
	if c.LastReview != nil {
		// Whole days; clock skew never counts backwards.
		if days := int(now.Sub(*c.LastReview).Hours() / 24); days > 0 {
			c.ElapsedDays = days
		}
	}

	if c.State == New {
		c.Difficulty = s.initDifficulty(rating, true)
		c.Stability = s.initStability(rating)
		if rating == Again {
			c.State = Learning
		} else {
			c.State = Review
		}
	} else {
		r := Retrievability(float64(c.ElapsedDays), c.Stability)
		if rating == Again {
			c.Stability = s.nextForgetStability(c.Difficulty, c.Stability, r)
			c.Lapses++
			c.State = Relearning
		} else {
			c.Stability = s.nextRecallStability(c.Difficulty, c.Stability, r, rating)
			c.State = Review
		}
		c.Difficulty = s.nextDifficulty(c.Difficulty, rating)
	}

	c.ScheduledDays = s.nextInterval(c.Stability)
	c.Due = now.Add(time.Duration(c.ScheduledDays) * 24 * time.Hour)
	reviewedAt := now
	c.LastReview = &reviewedAt
	c.Reps++

	log := ReviewLog{
		Rating:        rating,
		State:         c.State,
		ElapsedDays:   c.ElapsedDays,
		ScheduledDays: c.ScheduledDays,
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		Review:        now,
	}
	return c, log, nil
}

// PreviewCard returns the result of reviewing the card with each of
// the four ratings at the given time. The input card is not mutated.
func (s *Scheduler) PreviewCard(card Card, now time.Time) map[Rating]Card {
	result := make(map[Rating]Card, 4)
	for _, r := range []Rating{Again, Hard, Good, Easy} {
		c, _, _ := s.ReviewCard(card, r, now)
		result[r] = c
	}
	return result
}
