// Package model defines the core skill and review data types.
package model

import (
	"time"

	"github.com/rcliao/skill-coach/internal/fsrs"
)

// Skill represents a tracked skill or topic.
type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DueReview is a skill whose card is due for review, with the recall
// probability at the time of the query.
type DueReview struct {
	Skill          Skill     `json:"skill"`
	Card           fsrs.Card `json:"card"`
	Retrievability float64   `json:"retrievability"`
}

// ReviewResult is the outcome of reviewing a skill: the card after the
// update and the log entry that was recorded.
type ReviewResult struct {
	Skill          Skill          `json:"skill"`
	Card           fsrs.Card      `json:"card"`
	Log            fsrs.ReviewLog `json:"log"`
	Retrievability float64        `json:"retrievability"` // recall probability going into the review
}

// ReviewStats holds aggregate scheduling statistics for one user.
type ReviewStats struct {
	TotalCards       int            `json:"total_cards"`
	DueNow           int            `json:"due_now"`
	NewCards         int            `json:"new_cards"`
	AvgStabilityDays float64        `json:"avg_stability_days"`
	AvgDifficulty    float64        `json:"avg_difficulty"`
	States           map[string]int `json:"states"`
}

// ReviewEvent is one row of the review history.
type ReviewEvent struct {
	ID            string      `json:"id"`
	UserID        int         `json:"user_id"`
	SkillID       string      `json:"skill_id"`
	SkillName     string      `json:"skill_name,omitempty"`
	Rating        fsrs.Rating `json:"rating"`
	State         fsrs.State  `json:"state"`
	ElapsedDays   int         `json:"elapsed_days"`
	ScheduledDays int         `json:"scheduled_days"`
	Stability     float64     `json:"stability"`
	Difficulty    float64     `json:"difficulty"`
	ReviewedAt    time.Time   `json:"reviewed_at"`
}

// UserWeights is a per-user weight vector produced by the optimizer.
type UserWeights struct {
	UserID        int       `json:"user_id"`
	Weights       []float64 `json:"weights"`
	ReviewCount   int       `json:"review_count"`
	LastOptimized time.Time `json:"last_optimized"`
}

// PlanEntry is one skill selected into a study plan.
type PlanEntry struct {
	Skill          Skill     `json:"skill"`
	Due            time.Time `json:"due"`
	Retrievability float64   `json:"retrievability"`
	Score          float64   `json:"score"`
	Minutes        int       `json:"minutes"`
	Reason         string    `json:"reason"`
}

// StudyPlan is a prioritized session packed into a time budget.
type StudyPlan struct {
	UserID        int         `json:"user_id"`
	GeneratedAt   time.Time   `json:"generated_at"`
	BudgetMinutes int         `json:"budget_minutes"`
	MinutesUsed   int         `json:"minutes_used"`
	TotalDue      int         `json:"total_due"`
	Entries       []PlanEntry `json:"entries"`
}

// CategoryCount holds per-category skill counts.
type CategoryCount struct {
	Category string `json:"category"`
	Skills   int    `json:"skills"`
	Due      int    `json:"due"`
}

// CardExport ties a card to its user and skill by name, so imports do
// not depend on skill IDs.
type CardExport struct {
	UserID    int       `json:"user_id"`
	SkillName string    `json:"skill_name"`
	Card      fsrs.Card `json:"card"`
}

// EventExport is a review-history row keyed by skill name.
type EventExport struct {
	UserID        int         `json:"user_id"`
	SkillName     string      `json:"skill_name"`
	Rating        fsrs.Rating `json:"rating"`
	State         fsrs.State  `json:"state"`
	ElapsedDays   int         `json:"elapsed_days"`
	ScheduledDays int         `json:"scheduled_days"`
	Stability     float64     `json:"stability"`
	Difficulty    float64     `json:"difficulty"`
	ReviewedAt    time.Time   `json:"reviewed_at"`
}

// ExportDoc is the portable dump of a database.
type ExportDoc struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	Skills     []Skill       `json:"skills"`
	Cards      []CardExport  `json:"cards"`
	Events     []EventExport `json:"events"`
	Weights    []UserWeights `json:"weights,omitempty"`
}

// ImportResult counts what an import brought in.
type ImportResult struct {
	Skills  int `json:"skills"`
	Cards   int `json:"cards"`
	Events  int `json:"events"`
	Weights int `json:"weights"`
	Skipped int `json:"skipped"`
}

// ValidCategories are the suggested skill categories. Free-form
// categories are accepted; these seed completions and grouping.
var ValidCategories = map[string]bool{
	"language":  true,
	"algorithm": true,
	"tool":      true,
	"concept":   true,
	"framework": true,
	"other":     true,
}
