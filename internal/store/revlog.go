package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

// ListReviewLog reads the review history, newest first. An unknown
// skill name simply matches nothing; it is a filter, not a lookup.
func (s *SQLiteStore) ListReviewLog(ctx context.Context, p ReviewLogParams) ([]model.ReviewEvent, error) {
	if p.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	limit := p.Limit
	if limit == 0 {
		limit = 50
	}

	b := sq.Select("r.id", "r.user_id", "r.skill_id", "s.name", "r.rating", "r.state",
		"r.elapsed_days", "r.scheduled_days", "r.stability", "r.difficulty", "r.reviewed_at").
		From("review_log r").
		Join("skills s ON s.id = r.skill_id").
		Where(sq.Eq{"r.user_id": p.UserID}).
		OrderBy("r.reviewed_at DESC").
		Limit(uint64(limit))

	if p.SkillName != "" {
		b = b.Where(sq.Eq{"s.name": p.SkillName})
	}
	if !p.Since.IsZero() {
		b = b.Where(sq.GtOrEq{"r.reviewed_at": p.Since.UTC().Format(time.RFC3339)})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.ReviewEvent
	for rows.Next() {
		var ev model.ReviewEvent
		var rating, state int
		var reviewedAt string
		err := rows.Scan(&ev.ID, &ev.UserID, &ev.SkillID, &ev.SkillName, &rating, &state,
			&ev.ElapsedDays, &ev.ScheduledDays, &ev.Stability, &ev.Difficulty, &reviewedAt)
		if err != nil {
			return nil, err
		}
		ev.Rating = fsrs.Rating(rating)
		ev.State = fsrs.State(state)
		ev.ReviewedAt, _ = time.Parse(time.RFC3339, reviewedAt)
		events = append(events, ev)
	}
	return events, rows.Err()
}
