package optimizer

import (
	"math"

	"github.com/rcliao/skill-coach/internal/fsrs"
)

const bceClamp = 1e-7

// bceLoss computes the binary cross-entropy loss: -[y*ln(p) + (1-y)*ln(1-p)].
// rPred is clamped to [bceClamp, 1-bceClamp] to avoid log(0).
func bceLoss(rPred, y float64) float64 {
	p := math.Max(bceClamp, math.Min(rPred, 1-bceClamp))
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

// computeBatchLoss computes the average BCE loss over all cross-day
// reviews. It creates a scheduler from w and replays each skill's
// history, scoring the predicted recall probability just before each
// review against the recorded outcome. Returns 0 if there are no
// cross-day reviews.
func computeBatchLoss(w []float64, data map[string][]review) float64 {
	sched, err := fsrs.NewScheduler(fsrs.Config{Weights: w})
	if err != nil {
		return 0
	}

	var totalLoss float64
	var count int

	for _, reviews := range data {
		var card fsrs.Card

		for _, rev := range reviews {
			// Retrievability BEFORE this review.
			rPred := fsrs.CardRetrievability(card, rev.reviewedAt)

			// Only cross-day reviews contribute to loss.
			if card.LastReview != nil && rev.elapsedDays >= 1.0 {
				totalLoss += bceLoss(rPred, rev.label)
				count++
			}

			card, _, _ = sched.ReviewCard(card, rev.rating, rev.reviewedAt)
		}
	}

	if count == 0 {
		return 0
	}
	return totalLoss / float64(count)
}

const gradEps = 1e-5

// numericalGradient computes the gradient of the batch loss w.r.t. each
// weight using central differences: dL/dw[i] ≈ (L(w[i]+ε) - L(w[i]-ε)) / (2ε).
func numericalGradient(w []float64, data map[string][]review) []float64 {
	grad := make([]float64, fsrs.NumWeights)
	for i := 0; i < fsrs.NumWeights; i++ {
		wPlus := make([]float64, fsrs.NumWeights)
		copy(wPlus, w)
		wPlus[i] += gradEps

		wMinus := make([]float64, fsrs.NumWeights)
		copy(wMinus, w)
		wMinus[i] -= gradEps

		lPlus := computeBatchLoss(wPlus, data)
		lMinus := computeBatchLoss(wMinus, data)

		grad[i] = (lPlus - lMinus) / (2 * gradEps)
	}
	return grad
}
