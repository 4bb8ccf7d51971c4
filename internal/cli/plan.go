package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/model"
	"github.com/rcliao/skill-coach/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a study plan for a session",
		Long:  "Pick the most valuable due skills that fit a session and print them as a checklist.",
		Run:   runPlan,
	}

	cmd.Flags().IntP("minutes", "m", 30, "Session length in minutes")

	RootCmd.AddCommand(cmd)
}

func runPlan(cmd *cobra.Command, args []string) {
	minutes, _ := cmd.Flags().GetInt("minutes")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	plan, err := s.BuildStudyPlan(cmd.Context(), store.PlanParams{
		UserID:        getUserID(),
		BudgetMinutes: minutes,
	})
	if err != nil {
		exitErr("plan", err)
	}

	fmt.Print(formatPlan(plan))
}

// formatPlan renders a study plan as a markdown checklist.
func formatPlan(p *model.StudyPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Study plan (%d/%d min)\n\n", p.MinutesUsed, p.BudgetMinutes)

	if len(p.Entries) == 0 {
		b.WriteString("Nothing due. All caught up.\n")
		return b.String()
	}

	for _, e := range p.Entries {
		fmt.Fprintf(&b, "- [ ] %s: %s (%d min)\n", e.Skill.Name, e.Reason, e.Minutes)
	}
	if p.TotalDue > len(p.Entries) {
		fmt.Fprintf(&b, "\n%d of %d due skills fit the budget.\n", len(p.Entries), p.TotalDue)
	}
	return b.String()
}
