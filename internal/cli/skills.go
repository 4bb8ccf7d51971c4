package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List tracked skills",
		Run:   runSkills,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSkills(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	skills, err := s.ListSkills(cmd.Context(), store.ListSkillsParams{
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		exitErr("skills", err)
	}

	b, _ := json.MarshalIndent(skills, "", "  ")
	fmt.Println(string(b))
}
