package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

var (
	// ErrNoHistory is returned when no review events are provided.
	ErrNoHistory = errors.New("optimizer: no review history")

	// ErrNotEnoughReviews is returned when the history holds fewer
	// cross-day reviews than Config.MinReviews. Training on so little
	// data would overfit; callers should keep the default weights.
	ErrNotEnoughReviews = errors.New("optimizer: not enough cross-day reviews")
)

// Config configures the training process.
// Zero values are replaced with sensible defaults.
type Config struct {
	Epochs        int     `json:"epochs"`          // default 5
	MiniBatchSize int     `json:"mini_batch_size"` // default 512
	LearningRate  float64 `json:"learning_rate"`   // default 0.04
	MaxSeqLen     int     `json:"max_seq_len"`     // default 64
	MinReviews    int     `json:"min_reviews"`     // default 100
}

// Optimizer fits scheduler weights to one user's review history using
// mini-batch gradient descent with Adam and cosine annealing.
type Optimizer struct {
	epochs        int
	miniBatchSize int
	learningRate  float64
	maxSeqLen     int
	minReviews    int
	logger        zerolog.Logger
}

// New creates an Optimizer with the given config. Zero-valued fields
// receive defaults: Epochs=5, MiniBatchSize=512, LearningRate=0.04,
// MaxSeqLen=64, MinReviews=100.
func New(cfg Config, logger zerolog.Logger) *Optimizer {
	o := &Optimizer{
		epochs:        cfg.Epochs,
		miniBatchSize: cfg.MiniBatchSize,
		learningRate:  cfg.LearningRate,
		maxSeqLen:     cfg.MaxSeqLen,
		minReviews:    cfg.MinReviews,
		logger:        logger.With().Str("component", "optimizer").Logger(),
	}
	if o.epochs == 0 {
		o.epochs = 5
	}
	if o.miniBatchSize == 0 {
		o.miniBatchSize = 512
	}
	if o.learningRate == 0 {
		o.learningRate = 0.04
	}
	if o.maxSeqLen == 0 {
		o.maxSeqLen = 64
	}
	if o.minReviews == 0 {
		o.minReviews = 100
	}
	return o
}

// Result holds trained weights and the loss trajectory.
type Result struct {
	Weights     []float64 `json:"weights"`
	ReviewCount int       `json:"review_count"` // cross-day reviews used for training
	InitialLoss float64   `json:"initial_loss"`
	FinalLoss   float64   `json:"final_loss"`
	Epochs      int       `json:"epochs"`
}

// Train fits weights to a review history, which must belong to a
// single user. It starts from the default weights and descends the
// binary cross-entropy loss by numerical central differences, one
// Adam step per mini-batch of cross-day reviews.
//
// Returns ErrNoHistory if events is empty, or ErrNotEnoughReviews if
// the history holds fewer cross-day reviews than MinReviews. The
// context can be used to cancel long-running training.
func (o *Optimizer) Train(ctx context.Context, events []model.ReviewEvent) (*Result, error) {
	if len(events) == 0 {
		return nil, ErrNoHistory
	}

	data := buildHistories(events)

	// Cap each skill's history so a single heavily reviewed skill
	// cannot dominate the gradient.
	for skillID, reviews := range data {
		if len(reviews) > o.maxSeqLen {
			data[skillID] = reviews[:o.maxSeqLen]
		}
	}

	numReviews := countCrossDayReviews(data)
	if numReviews < o.minReviews {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughReviews, numReviews, o.minReviews)
	}

	weights := fsrs.DefaultWeights()
	initialLoss := computeBatchLoss(weights, data)

	tMax := int(math.Ceil(float64(numReviews)/float64(o.miniBatchSize))) * o.epochs
	adam := NewAdam(o.learningRate)
	ca := NewCosineAnnealing(o.learningRate, tMax)
	rng := rand.New(rand.NewSource(42))

	// Sorted skill IDs for a deterministic shuffle.
	skillIDs := make([]string, 0, len(data))
	for id := range data {
		skillIDs = append(skillIDs, id)
	}
	sort.Strings(skillIDs)

	// The defaults are the fallback: an epoch has to beat them on the
	// full data before its weights are kept.
	bestWeights := weights
	bestLoss := initialLoss

	for epoch := 0; epoch < o.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rng.Shuffle(len(skillIDs), func(i, j int) {
			skillIDs[i], skillIDs[j] = skillIDs[j], skillIDs[i]
		})

		batch := make(map[string][]review)
		crossDayCount := 0

		for _, skillID := range skillIDs {
			reviews := data[skillID]
			batch[skillID] = reviews

			for _, r := range reviews {
				if r.elapsedDays >= 1.0 {
					crossDayCount++
				}
			}

			if crossDayCount >= o.miniBatchSize {
				grad := numericalGradient(weights, batch)
				adam.SetLR(ca.LR())
				weights = adam.Update(weights, grad)
				weights = clampWeights(weights)
				ca.Step()

				batch = make(map[string][]review)
				crossDayCount = 0
			}
		}

		// Remaining skills form a final smaller batch.
		if crossDayCount > 0 {
			grad := numericalGradient(weights, batch)
			adam.SetLR(ca.LR())
			weights = adam.Update(weights, grad)
			weights = clampWeights(weights)
			ca.Step()
		}

		// Track the best weights by full-data loss.
		epochLoss := computeBatchLoss(weights, data)
		if epochLoss < bestLoss {
			bestLoss = epochLoss
			bestWeights = weights
		}

		o.logger.Debug().
			Int("epoch", epoch+1).
			Float64("loss", epochLoss).
			Msg("epoch complete")
	}

	return &Result{
		Weights:     bestWeights,
		ReviewCount: numReviews,
		InitialLoss: initialLoss,
		FinalLoss:   bestLoss,
		Epochs:      o.epochs,
	}, nil
}

// Loss computes the average cross-day BCE loss of the given weights
// over a review history. Useful for comparing weight vectors.
func (o *Optimizer) Loss(w []float64, events []model.ReviewEvent) float64 {
	return computeBatchLoss(w, buildHistories(events))
}

// clampWeights constrains each weight to [LowerBounds, UpperBounds].
func clampWeights(w []float64) []float64 {
	for i := range w {
		if w[i] < fsrs.LowerBounds[i] {
			w[i] = fsrs.LowerBounds[i]
		}
		if w[i] > fsrs.UpperBounds[i] {
			w[i] = fsrs.UpperBounds[i]
		}
	}
	return w
}
