package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rcliao/skill-coach/internal/fsrs"
)

func TestBuildStudyPlanEmpty(t *testing.T) {
	s := newTestStore(t)
	plan, err := s.BuildStudyPlan(context.Background(), PlanParams{UserID: 1})
	if err != nil {
		t.Fatalf("BuildStudyPlan: %v", err)
	}
	if plan.TotalDue != 0 || len(plan.Entries) != 0 {
		t.Errorf("plan = %+v", plan)
	}
	if plan.BudgetMinutes != 30 {
		t.Errorf("budget = %d, want default 30", plan.BudgetMinutes)
	}
}

func TestBuildStudyPlanPacksBudget(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Five new skills at 10 minutes each against a 30 minute budget.
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		if _, err := s.AddSkill(ctx, AddSkillParams{Name: n, UserID: 1}); err != nil {
			t.Fatalf("AddSkill: %v", err)
		}
	}

	plan, err := s.BuildStudyPlan(ctx, PlanParams{UserID: 1, BudgetMinutes: 30})
	if err != nil {
		t.Fatalf("BuildStudyPlan: %v", err)
	}
	if plan.TotalDue != 5 {
		t.Errorf("total due = %d, want 5", plan.TotalDue)
	}
	if len(plan.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(plan.Entries))
	}
	if plan.MinutesUsed != 30 {
		t.Errorf("minutes used = %d, want 30", plan.MinutesUsed)
	}
	for _, e := range plan.Entries {
		if e.Reason != "new skill" {
			t.Errorf("reason = %q, want new skill", e.Reason)
		}
		if e.Minutes != 10 {
			t.Errorf("minutes = %d, want 10", e.Minutes)
		}
	}
}

func TestBuildStudyPlanOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"lapsed", "fresh", "steady"} {
		if _, err := s.AddSkill(ctx, AddSkillParams{Name: n, UserID: 1}); err != nil {
			t.Fatalf("AddSkill: %v", err)
		}
	}
	// lapsed: failed once, due tomorrow. steady: solid review, due in
	// three days. fresh: never touched.
	if _, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "lapsed", Rating: fsrs.Again, UserID: 1}); err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}
	if _, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "steady", Rating: fsrs.Good, UserID: 1}); err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}

	setClock(s, testTime.Add(10*24*time.Hour))
	plan, err := s.BuildStudyPlan(ctx, PlanParams{UserID: 1, BudgetMinutes: 60})
	if err != nil {
		t.Fatalf("BuildStudyPlan: %v", err)
	}
	if len(plan.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(plan.Entries))
	}

	// Scores are descending.
	for i := 1; i < len(plan.Entries); i++ {
		if plan.Entries[i].Score > plan.Entries[i-1].Score {
			t.Errorf("entries out of order: %.2f before %.2f",
				plan.Entries[i-1].Score, plan.Entries[i].Score)
		}
	}

	// The never-reviewed skill ranks below the overdue reviewed ones.
	if plan.Entries[len(plan.Entries)-1].Skill.Name != "fresh" {
		t.Errorf("last entry = %s, want fresh", plan.Entries[len(plan.Entries)-1].Skill.Name)
	}

	for _, e := range plan.Entries {
		switch e.Skill.Name {
		case "fresh":
			if e.Reason != "new skill" {
				t.Errorf("fresh reason = %q", e.Reason)
			}
		default:
			if !strings.HasPrefix(e.Reason, "overdue") {
				t.Errorf("%s reason = %q, want overdue prefix", e.Skill.Name, e.Reason)
			}
		}
	}
}

func TestBuildStudyPlanSkipsWhatDoesNotFit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"lapsed", "fresh", "steady"} {
		if _, err := s.AddSkill(ctx, AddSkillParams{Name: n, UserID: 1}); err != nil {
			t.Fatalf("AddSkill: %v", err)
		}
	}
	if _, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "lapsed", Rating: fsrs.Again, UserID: 1}); err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}
	if _, err := s.ReviewSkill(ctx, ReviewParams{SkillName: "steady", Rating: fsrs.Good, UserID: 1}); err != nil {
		t.Fatalf("ReviewSkill: %v", err)
	}

	// steady is a 5 minute review, lapsed an 8 minute relearn, fresh a
	// 10 minute introduction. A 13 minute budget fits the top two and
	// skips the new skill.
	setClock(s, testTime.Add(10*24*time.Hour))
	plan, err := s.BuildStudyPlan(ctx, PlanParams{UserID: 1, BudgetMinutes: 13})
	if err != nil {
		t.Fatalf("BuildStudyPlan: %v", err)
	}
	if len(plan.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(plan.Entries))
	}
	if plan.MinutesUsed != 13 {
		t.Errorf("minutes used = %d, want 13", plan.MinutesUsed)
	}
	for _, e := range plan.Entries {
		if e.Skill.Name == "fresh" {
			t.Error("new skill should not fit the 13 minute budget")
		}
	}
	if plan.TotalDue != 3 {
		t.Errorf("total due = %d, want 3", plan.TotalDue)
	}
}
