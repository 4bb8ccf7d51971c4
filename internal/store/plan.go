package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

// BuildStudyPlan assembles the most valuable due skills into a session
// that fits the given time budget.
func (s *SQLiteStore) BuildStudyPlan(ctx context.Context, p PlanParams) (*model.StudyPlan, error) {
	budget := p.BudgetMinutes
	if budget <= 0 {
		budget = 30
	}
	now := s.now().UTC()

	// Pull more candidates than a session can hold so scoring has
	// something to choose from.
	due, err := s.GetDueReviews(ctx, DueParams{UserID: p.UserID, Limit: 100, Now: now})
	if err != nil {
		return nil, err
	}

	plan := &model.StudyPlan{
		UserID:        p.UserID,
		GeneratedAt:   now,
		BudgetMinutes: budget,
		TotalDue:      len(due),
		Entries:       []model.PlanEntry{},
	}
	if len(due) == 0 {
		return plan, nil
	}

	// Score each due card.
	type scored struct {
		review model.DueReview
		score  float64
	}
	var candidates []scored

	for _, d := range due {
		// Urgency: saturating growth with days overdue.
		overdue := now.Sub(d.Card.Due).Hours() / 24.0
		if overdue < 0 {
			overdue = 0
		}
		urgency := 1 - math.Exp(-0.2*overdue)

		// Fragility: how much recall has decayed.
		fragility := 1 - d.Retrievability

		// Struggle: harder cards need attention sooner.
		struggle := (d.Card.Difficulty - 1) / 9.0
		if struggle < 0 {
			struggle = 0
		}

		// Fresh skills get a starting boost.
		freshness := 0.0
		if d.Card.State == fsrs.New {
			freshness = 1.0
			fragility = 0 // nothing learned yet, nothing decaying
		}

		score := urgency*0.4 + fragility*0.3 + struggle*0.2 + freshness*0.1
		candidates = append(candidates, scored{review: d, score: score})
	}

	// Sort by score descending
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	// Greedy packing into the budget. A skill that does not fit is
	// skipped, not split; a shorter one further down may still fit.
	used := 0
	for _, c := range candidates {
		minutes := estMinutes(c.review.Card.State)
		if used+minutes > budget {
			continue
		}
		plan.Entries = append(plan.Entries, model.PlanEntry{
			Skill:          c.review.Skill,
			Due:            c.review.Card.Due,
			Retrievability: c.review.Retrievability,
			Score:          math.Round(c.score*100) / 100,
			Minutes:        minutes,
			Reason:         planReason(c.review, now),
		})
		used += minutes
	}
	plan.MinutesUsed = used

	return plan, nil
}

// estMinutes estimates session time per card by learning stage.
func estMinutes(state fsrs.State) int {
	switch state {
	case fsrs.New:
		return 10
	case fsrs.Learning, fsrs.Relearning:
		return 8
	default:
		return 5
	}
}

func planReason(d model.DueReview, now time.Time) string {
	if d.Card.State == fsrs.New {
		return "new skill"
	}
	overdue := int(now.Sub(d.Card.Due).Hours() / 24.0)
	recall := int(math.Round(d.Retrievability * 100))
	if overdue <= 0 {
		return fmt.Sprintf("due today, recall %d%%", recall)
	}
	return fmt.Sprintf("overdue %dd, recall %d%%", overdue, recall)
}
