package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

// GetUserWeights returns the user's optimized weights, or nil when
// none have been stored.
func (s *SQLiteStore) GetUserWeights(ctx context.Context, userID int) (*model.UserWeights, error) {
	var weightsJSON, lastOptimized string
	uw := model.UserWeights{UserID: userID}

	err := s.db.QueryRowContext(ctx,
		`SELECT weights, review_count, last_optimized FROM user_weights WHERE user_id = ?`,
		userID).Scan(&weightsJSON, &uw.ReviewCount, &lastOptimized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(weightsJSON), &uw.Weights); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}
	uw.LastOptimized, _ = time.Parse(time.RFC3339, lastOptimized)
	return &uw, nil
}

// PutUserWeights stores an optimized weight vector for a user,
// replacing any previous one.
func (s *SQLiteStore) PutUserWeights(ctx context.Context, w model.UserWeights) error {
	if err := fsrs.ValidateWeights(w.Weights); err != nil {
		return err
	}

	b, err := json.Marshal(w.Weights)
	if err != nil {
		return err
	}
	last := w.LastOptimized
	if last.IsZero() {
		last = s.now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_weights (user_id, weights, review_count, last_optimized)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   weights = excluded.weights,
		   review_count = excluded.review_count,
		   last_optimized = excluded.last_optimized`,
		w.UserID, string(b), w.ReviewCount, last.UTC().Format(time.RFC3339))
	return err
}

// schedulerFor returns a scheduler built from the user's stored
// weights, falling back to the defaults when none are stored or the
// stored vector no longer validates.
func (s *SQLiteStore) schedulerFor(ctx context.Context, userID int) (*fsrs.Scheduler, error) {
	uw, err := s.GetUserWeights(ctx, userID)
	if err != nil {
		return nil, err
	}
	if uw == nil {
		return s.sched, nil
	}

	sched, err := fsrs.NewScheduler(fsrs.Config{Weights: uw.Weights, DesiredRetention: s.retention})
	if err != nil {
		s.logger.Warn().Int("user", userID).Err(err).
			Msg("stored weights invalid, using defaults")
		return s.sched, nil
	}
	return sched, nil
}
