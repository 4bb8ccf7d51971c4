package fsrs

import "time"

// ReviewLog records the outcome of a single review. State and the
// memory fields reflect the card after the transition.
type ReviewLog struct {
	Rating        Rating    `json:"rating"`
	State         State     `json:"state"`
	ElapsedDays   int       `json:"elapsed_days"`
	ScheduledDays int       `json:"scheduled_days"`
	Stability     float64   `json:"stability"`
	Difficulty    float64   `json:"difficulty"`
	Review        time.Time `json:"review"`
}
