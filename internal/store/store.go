// Package store provides the skill storage interface and SQLite implementation.
package store

import (
	"context"
	"time"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

// AddSkillParams holds parameters for registering a skill.
type AddSkillParams struct {
	Name        string
	Category    string
	Description string
	UserID      int // owner of the seed card
}

// ListSkillsParams holds parameters for listing skills.
type ListSkillsParams struct {
	Category string
	Limit    int
}

// DueParams holds parameters for querying due reviews.
type DueParams struct {
	UserID int
	Limit  int       // 0 means default (20)
	Now    time.Time // zero means the current time
}

// ReviewParams holds parameters for recording a review.
type ReviewParams struct {
	SkillName string
	Rating    fsrs.Rating
	UserID    int
}

// ReviewLogParams holds filters for reading the review history.
type ReviewLogParams struct {
	UserID    int
	SkillName string    // empty means all skills
	Since     time.Time // zero means no lower bound
	Limit     int       // 0 means default (50)
}

// PlanParams holds parameters for building a study plan.
type PlanParams struct {
	UserID        int
	BudgetMinutes int // 0 means default (30)
}

// Store defines the skill storage interface.
type Store interface {
	// AddSkill registers a skill and seeds a new card for the user.
	AddSkill(ctx context.Context, p AddSkillParams) (*model.Skill, error)

	// GetSkill resolves a skill by name.
	GetSkill(ctx context.Context, name string) (*model.Skill, error)

	// ListSkills lists registered skills, newest first.
	ListSkills(ctx context.Context, p ListSkillsParams) ([]model.Skill, error)

	// RemoveSkill deletes a skill and, via cascade, its cards and history.
	RemoveSkill(ctx context.Context, name string) error

	// ListCategories returns per-category skill and due counts.
	ListCategories(ctx context.Context, userID int) ([]model.CategoryCount, error)

	// GetDueReviews returns the user's due cards, most overdue first.
	GetDueReviews(ctx context.Context, p DueParams) ([]model.DueReview, error)

	// GetSkillCard returns one skill with the user's card and its
	// current recall probability, due or not.
	GetSkillCard(ctx context.Context, userID int, skillName string) (*model.DueReview, error)

	// ReviewSkill records a review outcome and reschedules the card.
	// Returns ErrConflict when a concurrent review won the race.
	ReviewSkill(ctx context.Context, p ReviewParams) (*model.ReviewResult, error)

	// GetReviewStats returns aggregate scheduling statistics for a user.
	GetReviewStats(ctx context.Context, userID int) (*model.ReviewStats, error)

	// ListReviewLog reads the review history, newest first.
	ListReviewLog(ctx context.Context, p ReviewLogParams) ([]model.ReviewEvent, error)

	// GetUserWeights returns the user's optimized weights, or nil if
	// none have been stored.
	GetUserWeights(ctx context.Context, userID int) (*model.UserWeights, error)

	// PutUserWeights stores an optimized weight vector for a user.
	PutUserWeights(ctx context.Context, w model.UserWeights) error

	// BuildStudyPlan packs the most valuable due skills into a
	// session of the given length.
	BuildStudyPlan(ctx context.Context, p PlanParams) (*model.StudyPlan, error)

	// ExportAll dumps skills, cards and history for backup.
	ExportAll(ctx context.Context) (*model.ExportDoc, error)

	// Import loads an export, skipping skills that already exist.
	Import(ctx context.Context, doc *model.ExportDoc) (*model.ImportResult, error)

	// Close closes the store.
	Close() error
}
