package fsrs

import "time"

// Card is the scheduling state the model keeps for one item. The zero
// value is a new, never-reviewed card.
type Card struct {
	Difficulty    float64    `json:"difficulty"`     // 1-10 once reviewed.
	Stability     float64    `json:"stability"`      // days; >= 0.1 once reviewed.
	ElapsedDays   int        `json:"elapsed_days"`   // whole days since the previous review.
	ScheduledDays int        `json:"scheduled_days"` // interval assigned at the last review.
	Reps          int        `json:"reps"`           // total reviews.
	Lapses        int        `json:"lapses"`         // reviews rated Again.
	State         State      `json:"state"`
	LastReview    *time.Time `json:"last_review,omitempty"` // nil before the first review.
	Due           time.Time  `json:"due"`
}

// CardRetrievability returns the card's recall probability at the
// given time. Cards that have never been reviewed return 0.
func CardRetrievability(card Card, now time.Time) float64 {
	if card.LastReview == nil || card.State == New {
		return 0
	}
	elapsed := now.Sub(*card.LastReview).Hours() / 24.0
	return Retrievability(elapsed, card.Stability)
}
