package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/skill-coach/internal/model"
)

// AddSkill registers a skill and seeds a new card for the user so the
// skill shows up as due immediately.
func (s *SQLiteStore) AddSkill(ctx context.Context, p AddSkillParams) (*model.Skill, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("skill name required")
	}
	category := p.Category
	if category == "" {
		category = "other"
	}

	now := s.now().UTC()
	ts := now.Format(time.RFC3339)
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT id FROM skills WHERE name = ?`, p.Name).Scan(&existing)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSkillExists, p.Name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var description *string
	if p.Description != "" {
		description = &p.Description
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO skills (id, name, category, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.Name, category, description, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("insert skill: %w", err)
	}

	// Seed card: state 0 (new), due now, so the first review can
	// happen right away.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO cards (user_id, skill_id, due, version, created_at, updated_at)
		 VALUES (?, ?, ?, 1, ?, ?)`,
		p.UserID, id, ts, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Skill{
		ID:          id,
		Name:        p.Name,
		Category:    category,
		Description: p.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetSkill resolves a skill by name.
func (s *SQLiteStore) GetSkill(ctx context.Context, name string) (*model.Skill, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, description, created_at, updated_at
		 FROM skills WHERE name = ?`, name)

	sk, err := scanSkill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &sk, nil
}

// ListSkills lists registered skills, newest first.
func (s *SQLiteStore) ListSkills(ctx context.Context, p ListSkillsParams) ([]model.Skill, error) {
	if p.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	limit := p.Limit
	if limit == 0 {
		limit = 20
	}

	where := []string{"1=1"}
	args := []interface{}{}
	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}

	query := `SELECT id, name, category, description, created_at, updated_at
	          FROM skills WHERE ` + strings.Join(where, " AND ") + `
	          ORDER BY created_at DESC, name ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []model.Skill
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

// RemoveSkill deletes a skill; cards and review history go with it
// via foreign key cascade.
func (s *SQLiteStore) RemoveSkill(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSkillNotFound, name)
	}
	return nil
}

// ListCategories returns per-category skill counts plus how many of
// the user's cards in each category are currently due.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID int) ([]model.CategoryCount, error) {
	now := s.now().UTC().Format(time.RFC3339)
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.category,
		       COUNT(DISTINCT s.id) AS skills,
		       SUM(CASE WHEN c.due IS NOT NULL AND c.due <= ? THEN 1 ELSE 0 END) AS due
		FROM skills s
		LEFT JOIN cards c ON c.skill_id = s.id AND c.user_id = ?
		GROUP BY s.category
		ORDER BY skills DESC, s.category ASC`, now, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.CategoryCount
	for rows.Next() {
		var cc model.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Skills, &cc.Due); err != nil {
			return nil, err
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}
