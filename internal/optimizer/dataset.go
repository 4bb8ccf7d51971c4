package optimizer

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

// review is one training sample: a review with the time elapsed since
// the previous review of the same skill and a binary recall label.
type review struct {
	rating      fsrs.Rating
	elapsedDays float64   // days since the previous review, 0 for the first
	label       float64   // 0 if Again, 1 otherwise
	reviewedAt  time.Time // original timestamp, used to replay the scheduler
}

// buildHistories groups review events by skill and sorts each history
// by time. Elapsed days are recomputed from the raw timestamps so that
// same-day reviews keep their fractional spacing.
func buildHistories(events []model.ReviewEvent) map[string][]review {
	if len(events) == 0 {
		return nil
	}

	groups := lo.GroupBy(events, func(e model.ReviewEvent) string { return e.SkillID })

	result := make(map[string][]review, len(groups))
	for skillID, history := range groups {
		sort.Slice(history, func(i, j int) bool {
			return history[i].ReviewedAt.Before(history[j].ReviewedAt)
		})

		reviews := make([]review, len(history))
		for i, e := range history {
			var elapsed float64
			if i > 0 {
				elapsed = e.ReviewedAt.Sub(history[i-1].ReviewedAt).Hours() / 24.0
			}

			label := 1.0
			if e.Rating == fsrs.Again {
				label = 0.0
			}

			reviews[i] = review{
				rating:      e.Rating,
				elapsedDays: elapsed,
				label:       label,
				reviewedAt:  e.ReviewedAt,
			}
		}
		result[skillID] = reviews
	}

	return result
}

// countCrossDayReviews counts reviews made at least one day after the
// previous one. Only these carry signal about long-term retention.
// The first review of each skill is never cross-day.
func countCrossDayReviews(data map[string][]review) int {
	count := 0
	for _, reviews := range data {
		for _, r := range reviews {
			if r.elapsedDays >= 1.0 {
				count++
			}
		}
	}
	return count
}
