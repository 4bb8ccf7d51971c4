package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/model"
	"github.com/rcliao/skill-coach/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a skill to track",
		Args:  cobra.ExactArgs(1),
		Run:   runAdd,
	}

	cmd.Flags().StringP("category", "c", "other", "Category: language, algorithm, tool, concept, framework, other")
	cmd.Flags().String("desc", "", "Short description")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	desc, _ := cmd.Flags().GetString("desc")

	// Categories are free-form; only mention it when debugging.
	if !model.ValidCategories[category] {
		log.Debug().Str("category", category).Msg("category is not one of the suggested set")
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	skill, err := s.AddSkill(cmd.Context(), store.AddSkillParams{
		Name:        args[0],
		Category:    category,
		Description: desc,
		UserID:      getUserID(),
	})
	if err != nil {
		exitErr("add", err)
	}

	b, _ := json.MarshalIndent(skill, "", "  ")
	fmt.Println(string(b))
}
