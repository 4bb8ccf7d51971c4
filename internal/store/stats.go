package store

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string          `json:"db_path"`
	DBSizeBytes  int64           `json:"db_size_bytes"`
	TotalSkills  int             `json:"total_skills"`
	TotalCards   int             `json:"total_cards"`
	TotalReviews int             `json:"total_reviews"`
	Categories   []CategoryStats `json:"categories"`
}

// CategoryStats holds per-category counts.
type CategoryStats struct {
	Category string `json:"category"`
	Skills   int    `json:"skills"`
	Reviews  int    `json:"reviews"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM skills`).Scan(&st.TotalSkills)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&st.TotalCards)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_log`).Scan(&st.TotalReviews)

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.category, COUNT(DISTINCT s.id) as cnt, COUNT(r.id) as reviews
		FROM skills s
		LEFT JOIN review_log r ON r.skill_id = s.id
		GROUP BY s.category ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var cs CategoryStats
		rows.Scan(&cs.Category, &cs.Skills, &cs.Reviews)
		st.Categories = append(st.Categories, cs)
	}

	return st, nil
}

// GetReviewStats returns aggregate scheduling statistics for a user.
// Averages cover reviewed cards only; a library of untouched skills
// reports zero averages rather than skewed ones.
func (s *SQLiteStore) GetReviewStats(ctx context.Context, userID int) (*model.ReviewStats, error) {
	now := s.now().UTC().Format(time.RFC3339)
	stats := &model.ReviewStats{States: map[string]int{}}

	var dueNow, newCards sql.NullInt64
	var avgStability, avgDifficulty sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN due <= ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN state = 0 THEN 1 ELSE 0 END),
		       AVG(CASE WHEN state != 0 THEN stability END),
		       AVG(CASE WHEN state != 0 THEN difficulty END)
		FROM cards WHERE user_id = ?`, now, userID).
		Scan(&stats.TotalCards, &dueNow, &newCards, &avgStability, &avgDifficulty)
	if err != nil {
		return nil, err
	}
	stats.DueNow = int(dueNow.Int64)
	stats.NewCards = int(newCards.Int64)
	stats.AvgStabilityDays = avgStability.Float64
	stats.AvgDifficulty = avgDifficulty.Float64

	rows, err := s.db.QueryContext(ctx,
		`SELECT state, COUNT(*) FROM cards WHERE user_id = ? GROUP BY state`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var state, count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		stats.States[fsrs.State(state).String()] = count
	}
	return stats, rows.Err()
}
