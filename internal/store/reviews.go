package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

const dueColumns = "s.id, s.name, s.category, s.description, s.created_at, s.updated_at, " +
	"c.difficulty, c.stability, c.elapsed_days, c.scheduled_days, c.reps, c.lapses, " +
	"c.state, c.last_review, c.due, c.version"

// GetDueReviews returns the user's due cards, most overdue first. New
// cards are due from the moment their skill is added.
func (s *SQLiteStore) GetDueReviews(ctx context.Context, p DueParams) ([]model.DueReview, error) {
	if p.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	limit := p.Limit
	if limit == 0 {
		limit = 20
	}
	now := p.Now
	if now.IsZero() {
		now = s.now()
	}
	now = now.UTC()

	query, args, err := sq.Select(dueColumns).
		From("cards c").
		Join("skills s ON s.id = c.skill_id").
		Where(sq.Eq{"c.user_id": p.UserID}).
		Where(sq.LtOrEq{"c.due": now.Format(time.RFC3339)}).
		OrderBy("c.due ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []model.DueReview
	for rows.Next() {
		dr, err := scanDueReview(rows, now)
		if err != nil {
			return nil, err
		}
		due = append(due, dr)
	}
	return due, rows.Err()
}

// GetSkillCard returns one skill with the user's card, due or not.
func (s *SQLiteStore) GetSkillCard(ctx context.Context, userID int, skillName string) (*model.DueReview, error) {
	query, args, err := sq.Select(dueColumns).
		From("cards c").
		Join("skills s ON s.id = c.skill_id").
		Where(sq.Eq{"c.user_id": userID, "s.name": skillName}).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	dr, err := scanDueReview(row, s.now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, skillName)
	}
	if err != nil {
		return nil, err
	}
	return &dr, nil
}

func scanDueReview(row scanner, now time.Time) (model.DueReview, error) {
	var dr model.DueReview
	var description sql.NullString
	var createdAt, updatedAt string
	var state int
	var lastReview sql.NullString
	var dueAt string
	var version int

	err := row.Scan(
		&dr.Skill.ID, &dr.Skill.Name, &dr.Skill.Category, &description, &createdAt, &updatedAt,
		&dr.Card.Difficulty, &dr.Card.Stability, &dr.Card.ElapsedDays, &dr.Card.ScheduledDays,
		&dr.Card.Reps, &dr.Card.Lapses, &state, &lastReview, &dueAt, &version,
	)
	if err != nil {
		return dr, err
	}

	if description.Valid {
		dr.Skill.Description = description.String
	}
	dr.Skill.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	dr.Skill.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	dr.Card.State = fsrs.State(state)
	if lastReview.Valid {
		t, _ := time.Parse(time.RFC3339, lastReview.String)
		dr.Card.LastReview = &t
	}
	dr.Card.Due, _ = time.Parse(time.RFC3339, dueAt)

	dr.Retrievability = fsrs.CardRetrievability(dr.Card, now)
	return dr, nil
}

// ReviewSkill records a review outcome and reschedules the card. The
// card row carries a version counter; the update only lands if the
// version read is still current, otherwise ErrConflict is returned
// and the caller may retry.
func (s *SQLiteStore) ReviewSkill(ctx context.Context, p ReviewParams) (*model.ReviewResult, error) {
	sched, err := s.schedulerFor(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	ts := now.Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, name, category, description, created_at, updated_at
		 FROM skills WHERE name = ?`, p.SkillName)
	skill, err := scanSkill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, p.SkillName)
	}
	if err != nil {
		return nil, err
	}

	var card fsrs.Card
	version := 0
	row = tx.QueryRowContext(ctx,
		`SELECT difficulty, stability, elapsed_days, scheduled_days, reps, lapses,
		        state, last_review, due, version
		 FROM cards WHERE user_id = ? AND skill_id = ?`, p.UserID, skill.ID)
	card, version, err = scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		// No card yet for this user; the review seeds one.
		card, version = fsrs.Card{}, 0
	} else if err != nil {
		return nil, err
	}

	prevR := fsrs.CardRetrievability(card, now)

	updated, log, err := sched.ReviewCard(card, p.Rating, now)
	if err != nil {
		return nil, err
	}

	if err := s.writeCard(ctx, tx, p.UserID, skill.ID, updated, version, ts); err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.Debug().Str("skill", p.SkillName).Int("user", p.UserID).
				Msg("review lost version race")
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO review_log (id, user_id, skill_id, rating, state, elapsed_days,
		                         scheduled_days, stability, difficulty, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.newID(), p.UserID, skill.ID, int(log.Rating), int(log.State), log.ElapsedDays,
		log.ScheduledDays, log.Stability, log.Difficulty, ts)
	if err != nil {
		return nil, fmt.Errorf("insert review log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.ReviewResult{
		Skill:          skill,
		Card:           updated,
		Log:            log,
		Retrievability: prevR,
	}, nil
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// writeCard persists a card guarded by its version. version 0 inserts
// a fresh row; otherwise the update only lands when the stored version
// still matches. Zero rows affected means another writer got there
// first and the caller sees ErrConflict.
func (s *SQLiteStore) writeCard(ctx context.Context, db execer, userID int, skillID string, c fsrs.Card, version int, ts string) error {
	var lastReview *string
	if c.LastReview != nil {
		v := c.LastReview.UTC().Format(time.RFC3339)
		lastReview = &v
	}
	due := c.Due.UTC().Format(time.RFC3339)

	if version == 0 {
		res, err := db.ExecContext(ctx,
			`INSERT INTO cards (user_id, skill_id, difficulty, stability, elapsed_days,
			                    scheduled_days, reps, lapses, state, last_review, due,
			                    version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
			 ON CONFLICT (user_id, skill_id) DO NOTHING`,
			userID, skillID, c.Difficulty, c.Stability, c.ElapsedDays,
			c.ScheduledDays, c.Reps, c.Lapses, int(c.State), lastReview, due, ts, ts)
		if err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: card already seeded", ErrConflict)
		}
		return nil
	}

	res, err := db.ExecContext(ctx,
		`UPDATE cards SET difficulty = ?, stability = ?, elapsed_days = ?,
		        scheduled_days = ?, reps = ?, lapses = ?, state = ?,
		        last_review = ?, due = ?, version = version + 1, updated_at = ?
		 WHERE user_id = ? AND skill_id = ? AND version = ?`,
		c.Difficulty, c.Stability, c.ElapsedDays, c.ScheduledDays, c.Reps, c.Lapses,
		int(c.State), lastReview, due, ts, userID, skillID, version)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: version %d is stale", ErrConflict, version)
	}
	return nil
}
