package store

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	entropy   *rand.Rand
	logger    zerolog.Logger
	sched     *fsrs.Scheduler // default scheduler; per-user weights override it
	retention float64         // desired retention, shared with per-user schedulers
	now       func() time.Time
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sched, err := fsrs.NewScheduler(fsrs.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("default scheduler: %w", err)
	}

	s := &SQLiteStore{
		db:        db,
		entropy:   rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    logger.With().Str("component", "store").Logger(),
		sched:     sched,
		retention: fsrs.DefaultRetention,
		now:       time.Now,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.logger.Debug().Str("path", dbPath).Msg("store opened")
	return s, nil
}

// SetRetention retargets scheduling at the given recall probability.
// It applies to the default weights and to stored per-user weights
// alike. Call before the store is shared between goroutines.
func (s *SQLiteStore) SetRetention(r float64) error {
	sched, err := fsrs.NewScheduler(fsrs.Config{DesiredRetention: r})
	if err != nil {
		return err
	}
	s.sched = sched
	s.retention = r
	return nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS skills (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		category    TEXT NOT NULL DEFAULT 'other',
		description TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_skills_category ON skills(category);

	CREATE TABLE IF NOT EXISTS cards (
		user_id        INTEGER NOT NULL,
		skill_id       TEXT NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		difficulty     REAL NOT NULL DEFAULT 0,
		stability      REAL NOT NULL DEFAULT 0,
		elapsed_days   INTEGER NOT NULL DEFAULT 0,
		scheduled_days INTEGER NOT NULL DEFAULT 0,
		reps           INTEGER NOT NULL DEFAULT 0,
		lapses         INTEGER NOT NULL DEFAULT 0,
		state          INTEGER NOT NULL DEFAULT 0,
		last_review    TEXT,
		due            TEXT NOT NULL,
		version        INTEGER NOT NULL DEFAULT 1,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		PRIMARY KEY (user_id, skill_id)
	);
	CREATE INDEX IF NOT EXISTS idx_cards_user_due ON cards(user_id, due);

	CREATE TABLE IF NOT EXISTS review_log (
		id             TEXT PRIMARY KEY,
		user_id        INTEGER NOT NULL,
		skill_id       TEXT NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		rating         INTEGER NOT NULL,
		state          INTEGER NOT NULL,
		elapsed_days   INTEGER NOT NULL,
		scheduled_days INTEGER NOT NULL,
		stability      REAL NOT NULL,
		difficulty     REAL NOT NULL,
		reviewed_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_revlog_user_skill ON review_log(user_id, skill_id, reviewed_at);
	CREATE INDEX IF NOT EXISTS idx_revlog_user_time ON review_log(user_id, reviewed_at);

	CREATE TABLE IF NOT EXISTS user_weights (
		user_id        INTEGER PRIMARY KEY,
		weights        TEXT NOT NULL,
		review_count   INTEGER NOT NULL DEFAULT 0,
		last_optimized TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSkill(row scanner) (model.Skill, error) {
	var sk model.Skill
	var description sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&sk.ID, &sk.Name, &sk.Category, &description, &createdAt, &updatedAt)
	if err != nil {
		return sk, err
	}

	if description.Valid {
		sk.Description = description.String
	}
	sk.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sk.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return sk, nil
}

// scanCard reads the card columns in their schema order:
// difficulty, stability, elapsed_days, scheduled_days, reps, lapses,
// state, last_review, due, version.
func scanCard(row scanner) (fsrs.Card, int, error) {
	var c fsrs.Card
	var state int
	var lastReview sql.NullString
	var due string
	var version int

	err := row.Scan(&c.Difficulty, &c.Stability, &c.ElapsedDays, &c.ScheduledDays,
		&c.Reps, &c.Lapses, &state, &lastReview, &due, &version)
	if err != nil {
		return c, 0, err
	}

	c.State = fsrs.State(state)
	if lastReview.Valid {
		t, _ := time.Parse(time.RFC3339, lastReview.String)
		c.LastReview = &t
	}
	c.Due, _ = time.Parse(time.RFC3339, due)
	return c, version, nil
}
