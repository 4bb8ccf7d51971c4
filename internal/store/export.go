package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

const exportVersion = 1

// ExportAll dumps skills, cards, review history and optimized user
// weights as a portable document. Cards and events reference skills by
// name so the dump survives re-import into a database with different
// ids.
func (s *SQLiteStore) ExportAll(ctx context.Context) (*model.ExportDoc, error) {
	doc := &model.ExportDoc{
		Version:    exportVersion,
		ExportedAt: s.now().UTC(),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, description, created_at, updated_at
		 FROM skills ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := map[string]string{} // id -> name
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		doc.Skills = append(doc.Skills, sk)
		names[sk.ID] = sk.Name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cardRows, err := s.db.QueryContext(ctx,
		`SELECT c.user_id, c.skill_id, c.difficulty, c.stability, c.elapsed_days,
		        c.scheduled_days, c.reps, c.lapses, c.state, c.last_review, c.due, c.version
		 FROM cards c ORDER BY c.skill_id, c.user_id`)
	if err != nil {
		return nil, err
	}
	defer cardRows.Close()

	for cardRows.Next() {
		var ce model.CardExport
		var skillID string
		var state int
		var lastReview sql.NullString
		var due string
		var version int
		err := cardRows.Scan(&ce.UserID, &skillID, &ce.Card.Difficulty, &ce.Card.Stability,
			&ce.Card.ElapsedDays, &ce.Card.ScheduledDays, &ce.Card.Reps, &ce.Card.Lapses,
			&state, &lastReview, &due, &version)
		if err != nil {
			return nil, err
		}
		ce.SkillName = names[skillID]
		ce.Card.State = fsrs.State(state)
		if lastReview.Valid {
			t, _ := time.Parse(time.RFC3339, lastReview.String)
			ce.Card.LastReview = &t
		}
		ce.Card.Due, _ = time.Parse(time.RFC3339, due)
		doc.Cards = append(doc.Cards, ce)
	}
	if err := cardRows.Err(); err != nil {
		return nil, err
	}

	evRows, err := s.db.QueryContext(ctx,
		`SELECT r.user_id, r.skill_id, r.rating, r.state, r.elapsed_days,
		        r.scheduled_days, r.stability, r.difficulty, r.reviewed_at
		 FROM review_log r ORDER BY r.reviewed_at`)
	if err != nil {
		return nil, err
	}
	defer evRows.Close()

	for evRows.Next() {
		var ee model.EventExport
		var skillID string
		var rating, state int
		var reviewedAt string
		err := evRows.Scan(&ee.UserID, &skillID, &rating, &state, &ee.ElapsedDays,
			&ee.ScheduledDays, &ee.Stability, &ee.Difficulty, &reviewedAt)
		if err != nil {
			return nil, err
		}
		ee.SkillName = names[skillID]
		ee.Rating = fsrs.Rating(rating)
		ee.State = fsrs.State(state)
		ee.ReviewedAt, _ = time.Parse(time.RFC3339, reviewedAt)
		doc.Events = append(doc.Events, ee)
	}
	if err := evRows.Err(); err != nil {
		return nil, err
	}

	wRows, err := s.db.QueryContext(ctx,
		`SELECT user_id, weights, review_count, last_optimized FROM user_weights ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer wRows.Close()

	for wRows.Next() {
		var uw model.UserWeights
		var weightsJSON, lastOptimized string
		if err := wRows.Scan(&uw.UserID, &weightsJSON, &uw.ReviewCount, &lastOptimized); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(weightsJSON), &uw.Weights); err != nil {
			return nil, fmt.Errorf("decode weights for user %d: %w", uw.UserID, err)
		}
		uw.LastOptimized, _ = time.Parse(time.RFC3339, lastOptimized)
		doc.Weights = append(doc.Weights, uw)
	}
	return doc, wRows.Err()
}

// Import loads an export. Existing skills are kept as they are and
// counted as skipped; their cards and history rows still import if
// they do not collide.
func (s *SQLiteStore) Import(ctx context.Context, doc *model.ExportDoc) (*model.ImportResult, error) {
	now := s.now().UTC()
	ts := now.Format(time.RFC3339)
	result := &model.ImportResult{}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ids := map[string]string{} // name -> id
	for _, sk := range doc.Skills {
		var existing string
		err := tx.QueryRowContext(ctx, `SELECT id FROM skills WHERE name = ?`, sk.Name).Scan(&existing)
		if err == nil {
			ids[sk.Name] = existing
			result.Skipped++
			continue
		}

		id := s.newID()
		createdAt := sk.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		var description *string
		if sk.Description != "" {
			description = &sk.Description
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO skills (id, name, category, description, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, sk.Name, sk.Category, description, createdAt.UTC().Format(time.RFC3339), ts)
		if err != nil {
			return nil, err
		}
		ids[sk.Name] = id
		result.Skills++
	}

	for _, ce := range doc.Cards {
		id, ok := ids[ce.SkillName]
		if !ok {
			result.Skipped++
			continue
		}
		var lastReview *string
		if ce.Card.LastReview != nil {
			v := ce.Card.LastReview.UTC().Format(time.RFC3339)
			lastReview = &v
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO cards (user_id, skill_id, difficulty, stability, elapsed_days,
			                    scheduled_days, reps, lapses, state, last_review, due,
			                    version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
			 ON CONFLICT (user_id, skill_id) DO NOTHING`,
			ce.UserID, id, ce.Card.Difficulty, ce.Card.Stability, ce.Card.ElapsedDays,
			ce.Card.ScheduledDays, ce.Card.Reps, ce.Card.Lapses, int(ce.Card.State),
			lastReview, ce.Card.Due.UTC().Format(time.RFC3339), ts, ts)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			result.Skipped++
		} else {
			result.Cards++
		}
	}

	for _, ee := range doc.Events {
		id, ok := ids[ee.SkillName]
		if !ok {
			result.Skipped++
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO review_log (id, user_id, skill_id, rating, state, elapsed_days,
			                         scheduled_days, stability, difficulty, reviewed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.newID(), ee.UserID, id, int(ee.Rating), int(ee.State), ee.ElapsedDays,
			ee.ScheduledDays, ee.Stability, ee.Difficulty,
			ee.ReviewedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return nil, err
		}
		result.Events++
	}

	for _, uw := range doc.Weights {
		if fsrs.ValidateWeights(uw.Weights) != nil {
			result.Skipped++
			continue
		}
		b, err := json.Marshal(uw.Weights)
		if err != nil {
			return nil, err
		}
		last := uw.LastOptimized
		if last.IsZero() {
			last = now
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_weights (user_id, weights, review_count, last_optimized)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (user_id) DO UPDATE SET
			   weights = excluded.weights,
			   review_count = excluded.review_count,
			   last_optimized = excluded.last_optimized`,
			uw.UserID, string(b), uw.ReviewCount, last.UTC().Format(time.RFC3339))
		if err != nil {
			return nil, err
		}
		result.Weights++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
