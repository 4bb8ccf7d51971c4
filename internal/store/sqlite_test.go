package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
)

var testTime = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	s.now = func() time.Time { return testTime }
	return s
}

// setClock pins the store clock to the given time.
func setClock(s *SQLiteStore, at time.Time) {
	s.now = func() time.Time { return at }
}

func TestAddAndGetSkill(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.AddSkill(ctx, AddSkillParams{
		Name:        "goroutines",
		Category:    "language",
		Description: "concurrency primitives",
		UserID:      1,
	})
	if err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	if added.ID == "" {
		t.Error("expected generated id")
	}

	got, err := s.GetSkill(ctx, "goroutines")
	if err != nil {
		t.Fatalf("GetSkill: %v", err)
	}
	if got.Name != "goroutines" || got.Category != "language" || got.Description != "concurrency primitives" {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(testTime) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, testTime)
	}
}

func TestAddSkillDefaultsCategory(t *testing.T) {
	s := newTestStore(t)
	sk, err := s.AddSkill(context.Background(), AddSkillParams{Name: "sql joins", UserID: 1})
	if err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	if sk.Category != "other" {
		t.Errorf("category = %q, want other", sk.Category)
	}
}

func TestAddSkillDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddSkill(ctx, AddSkillParams{Name: "binary search", UserID: 1}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	_, err := s.AddSkill(ctx, AddSkillParams{Name: "binary search", UserID: 1})
	if !errors.Is(err, ErrSkillExists) {
		t.Errorf("err = %v, want ErrSkillExists", err)
	}
}

func TestAddSkillRequiresName(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddSkill(context.Background(), AddSkillParams{UserID: 1}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestGetSkillNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSkill(context.Background(), "nope")
	if !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("err = %v, want ErrSkillNotFound", err)
	}
}

func TestListSkills(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"goroutines", "channels", "binary search"}
	cats := []string{"language", "language", "algorithm"}
	for i, n := range names {
		setClock(s, testTime.Add(time.Duration(i)*time.Minute))
		if _, err := s.AddSkill(ctx, AddSkillParams{Name: n, Category: cats[i], UserID: 1}); err != nil {
			t.Fatalf("AddSkill(%s): %v", n, err)
		}
	}

	all, err := s.ListSkills(ctx, ListSkillsParams{})
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d skills, want 3", len(all))
	}
	// Newest first.
	if all[0].Name != "binary search" {
		t.Errorf("first = %s, want binary search", all[0].Name)
	}

	lang, err := s.ListSkills(ctx, ListSkillsParams{Category: "language"})
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(lang) != 2 {
		t.Errorf("got %d language skills, want 2", len(lang))
	}

	limited, err := s.ListSkills(ctx, ListSkillsParams{Limit: 1})
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d skills with limit 1", len(limited))
	}

	if _, err := s.ListSkills(ctx, ListSkillsParams{Limit: -1}); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("err = %v, want ErrInvalidLimit", err)
	}
}

func TestRemoveSkillCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddSkill(ctx, AddSkillParams{Name: "recursion", UserID: 1}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	if _, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "recursion", Rating: fsrs.Good, UserID: 1}); err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}

	if err := s.RemoveSkill(ctx, "recursion"); err != nil {
		t.Fatalf("RemoveSkill: %v", err)
	}

	if _, err := s.GetSkill(ctx, "recursion"); !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("skill still present: %v", err)
	}
	var cards, logs int
	s.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&cards)
	s.db.QueryRow(`SELECT COUNT(*) FROM review_log`).Scan(&logs)
	if cards != 0 || logs != 0 {
		t.Errorf("cascade left %d cards, %d log rows", cards, logs)
	}
}

func TestRemoveSkillNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.RemoveSkill(context.Background(), "ghost"); !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("err = %v, want ErrSkillNotFound", err)
	}
}

func TestListCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"goroutines", "channels"} {
		if _, err := s.AddSkill(ctx, AddSkillParams{Name: n, Category: "language", UserID: 1}); err != nil {
			t.Fatalf("AddSkill: %v", err)
		}
	}
	if _, err := s.AddSkill(ctx, AddSkillParams{Name: "quicksort", Category: "algorithm", UserID: 1}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	// Push one language card out of the due window.
	if _, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "goroutines", Rating: fsrs.Easy, UserID: 1}); err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}

	counts, err := s.ListCategories(ctx, 1)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("got %d categories, want 2", len(counts))
	}
	// language has 2 skills, sorted first.
	if counts[0].Category != "language" || counts[0].Skills != 2 {
		t.Errorf("first = %+v", counts[0])
	}
	if counts[0].Due != 1 {
		t.Errorf("language due = %d, want 1 (easy review pushed one out)", counts[0].Due)
	}
	if counts[1].Category != "algorithm" || counts[1].Due != 1 {
		t.Errorf("second = %+v", counts[1])
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "stats.db")
	s2, err := NewSQLiteStore(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s2.Close()
	s2.now = func() time.Time { return testTime }

	if _, err := s2.AddSkill(ctx, AddSkillParams{Name: "heaps", Category: "algorithm", UserID: 1}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	if _, err := s2.ReviewSkill(ctx, ReviewParams{SkillName: "heaps", Rating: fsrs.Good, UserID: 1}); err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}

	st, err := s2.Stats(ctx, path)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalSkills != 1 || st.TotalCards != 1 || st.TotalReviews != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.DBSizeBytes == 0 {
		t.Error("expected nonzero db size")
	}
	if len(st.Categories) != 1 || st.Categories[0].Category != "algorithm" {
		t.Errorf("categories = %+v", st.Categories)
	}

	// Unused fixture store still reports empty stats cleanly.
	empty, err := s.Stats(ctx, filepath.Join(dir, "missing.db"))
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if empty.TotalSkills != 0 {
		t.Errorf("empty store reports %d skills", empty.TotalSkills)
	}
}

func TestExportImportRoundtrip(t *testing.T) {
	src := newTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"goroutines", "channels"} {
		if _, err := src.AddSkill(ctx, AddSkillParams{Name: n, Category: "language", UserID: 1}); err != nil {
			t.Fatalf("AddSkill: %v", err)
		}
	}
	if _, err := src.ReviewSkill(ctx, ReviewParams{SkillName: "goroutines", Rating: fsrs.Good, UserID: 1}); err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}
	w := fsrs.DefaultWeights()
	w[2] = 5.0
	if err := src.PutUserWeights(ctx, model.UserWeights{UserID: 1, Weights: w, ReviewCount: 120}); err != nil {
		t.Fatalf("PutUserWeights: %v", err)
	}

	doc, err := src.ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if len(doc.Skills) != 2 || len(doc.Cards) != 2 || len(doc.Events) != 1 || len(doc.Weights) != 1 {
		t.Fatalf("export = %d skills, %d cards, %d events, %d weights",
			len(doc.Skills), len(doc.Cards), len(doc.Events), len(doc.Weights))
	}

	dst := newTestStore(t)
	result, err := dst.Import(ctx, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Skills != 2 || result.Cards != 2 || result.Events != 1 || result.Weights != 1 || result.Skipped != 0 {
		t.Errorf("import = %+v", result)
	}
	uw, err := dst.GetUserWeights(ctx, 1)
	if err != nil {
		t.Fatalf("GetUserWeights: %v", err)
	}
	if uw == nil || uw.Weights[2] != 5.0 || uw.ReviewCount != 120 {
		t.Errorf("imported weights = %+v", uw)
	}

	// Reviewed state survives the roundtrip.
	dr, err := dst.GetSkillCard(ctx, 1, "goroutines")
	if err != nil {
		t.Fatalf("GetSkillCard: %v", err)
	}
	if dr.Card.State != fsrs.Review || dr.Card.Reps != 1 {
		t.Errorf("imported card = %+v", dr.Card)
	}
	if dr.Card.Stability == 0 {
		t.Error("imported card lost stability")
	}
}

func TestImportSkipsExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddSkill(ctx, AddSkillParams{Name: "goroutines", UserID: 1}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	doc, err := s.ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}

	result, err := s.Import(ctx, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Skills != 0 {
		t.Errorf("re-imported %d skills into same store", result.Skills)
	}
	// Skill and its card both collide.
	if result.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", result.Skipped)
	}
}
