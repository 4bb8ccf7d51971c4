package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

func TestPutGetUserWeights(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := fsrs.DefaultWeights()
	w[0] = 0.5
	err := s.PutUserWeights(ctx, model.UserWeights{
		UserID:      1,
		Weights:     w,
		ReviewCount: 150,
	})
	if err != nil {
		t.Fatalf("PutUserWeights: %v", err)
	}

	got, err := s.GetUserWeights(ctx, 1)
	if err != nil {
		t.Fatalf("GetUserWeights: %v", err)
	}
	if got == nil {
		t.Fatal("got nil weights")
	}
	if len(got.Weights) != fsrs.NumWeights || got.Weights[0] != 0.5 {
		t.Errorf("weights = %v", got.Weights)
	}
	if got.ReviewCount != 150 {
		t.Errorf("review count = %d, want 150", got.ReviewCount)
	}
	if !got.LastOptimized.Equal(testTime) {
		t.Errorf("last optimized = %v, want %v", got.LastOptimized, testTime)
	}
}

func TestPutUserWeightsReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := fsrs.DefaultWeights()
	if err := s.PutUserWeights(ctx, model.UserWeights{UserID: 1, Weights: w, ReviewCount: 100}); err != nil {
		t.Fatalf("PutUserWeights: %v", err)
	}
	w[5] = 2.0
	if err := s.PutUserWeights(ctx, model.UserWeights{UserID: 1, Weights: w, ReviewCount: 200}); err != nil {
		t.Fatalf("PutUserWeights: %v", err)
	}

	got, err := s.GetUserWeights(ctx, 1)
	if err != nil {
		t.Fatalf("GetUserWeights: %v", err)
	}
	if got.Weights[5] != 2.0 || got.ReviewCount != 200 {
		t.Errorf("got = %+v", got)
	}
}

func TestGetUserWeightsAbsent(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetUserWeights(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetUserWeights: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestPutUserWeightsValidates(t *testing.T) {
	s := newTestStore(t)
	err := s.PutUserWeights(context.Background(), model.UserWeights{UserID: 1, Weights: []float64{1, 2, 3}})
	if !errors.Is(err, fsrs.ErrInvalidWeights) {
		t.Errorf("err = %v, want ErrInvalidWeights", err)
	}
}

func TestReviewUsesStoredWeights(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Bump the Good initial stability so the first review shows it.
	w := fsrs.DefaultWeights()
	w[2] = 5.0
	if err := s.PutUserWeights(ctx, model.UserWeights{UserID: 1, Weights: w, ReviewCount: 100}); err != nil {
		t.Fatalf("PutUserWeights: %v", err)
	}

	if _, err := s.AddSkill(ctx, AddSkillParams{Name: "goroutines", UserID: 1}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	result, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "goroutines", Rating: fsrs.Good, UserID: 1})
	if err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}
	if math.Abs(result.Card.Stability-5.0) > 1e-4 {
		t.Errorf("stability = %.4f, want 5.0 from stored weights", result.Card.Stability)
	}

	// Another user still gets the defaults.
	result2, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "goroutines", Rating: fsrs.Good, UserID: 2})
	if err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}
	if math.Abs(result2.Card.Stability-3.1262) > 1e-4 {
		t.Errorf("stability = %.4f, want default 3.1262", result2.Card.Stability)
	}
}

func TestSetRetention(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetRetention(0.8); err != nil {
		t.Fatalf("SetRetention: %v", err)
	}

	if _, err := s.AddSkill(ctx, AddSkillParams{Name: "goroutines", UserID: 1}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	result, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "goroutines", Rating: fsrs.Good, UserID: 1})
	if err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}
	// At 80% retention the interval stretches: I = S/F * (0.8^-2 - 1),
	// so S = 3.1262 gives round(7.4967) = 7 instead of 3.
	if result.Card.ScheduledDays != 7 {
		t.Errorf("scheduled days = %d, want 7 at retention 0.8", result.Card.ScheduledDays)
	}
}

func TestSetRetentionAppliesToStoredWeights(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetRetention(0.8); err != nil {
		t.Fatalf("SetRetention: %v", err)
	}
	w := fsrs.DefaultWeights()
	w[2] = 5.0
	if err := s.PutUserWeights(ctx, model.UserWeights{UserID: 1, Weights: w, ReviewCount: 100}); err != nil {
		t.Fatalf("PutUserWeights: %v", err)
	}

	if _, err := s.AddSkill(ctx, AddSkillParams{Name: "goroutines", UserID: 1}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	result, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "goroutines", Rating: fsrs.Good, UserID: 1})
	if err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}
	// S = 5.0 under the stored weights; round(5.0 * 2.398) = 12.
	if result.Card.ScheduledDays != 12 {
		t.Errorf("scheduled days = %d, want 12 at retention 0.8", result.Card.ScheduledDays)
	}
}

func TestSetRetentionRejectsOutOfRange(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetRetention(1.5); !errors.Is(err, fsrs.ErrInvalidRetention) {
		t.Errorf("err = %v, want ErrInvalidRetention", err)
	}
}

func TestSchedulerForFallsBackOnBadWeights(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A malformed row can only get in outside the api.
	_, err := s.db.Exec(
		`INSERT INTO user_weights (user_id, weights, review_count, last_optimized)
		 VALUES (1, '[1, 2, 3]', 10, ?)`, testTime.Format("2006-01-02T15:04:05Z07:00"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	sched, err := s.schedulerFor(ctx, 1)
	if err != nil {
		t.Fatalf("schedulerFor: %v", err)
	}
	got := sched.Weights()
	def := fsrs.DefaultWeights()
	for i := range def {
		if got[i] != def[i] {
			t.Fatalf("w[%d] = %v, want default %v", i, got[i], def[i])
		}
	}
}
