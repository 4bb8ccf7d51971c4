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
		Use:   "stats",
		Short: "Show review statistics",
		Run:   runStats,
	}

	cmd.Flags().Bool("db-info", false, "Include database file statistics")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	dbInfo, _ := cmd.Flags().GetBool("db-info")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	review, err := s.GetReviewStats(cmd.Context(), getUserID())
	if err != nil {
		exitErr("stats", err)
	}

	if !dbInfo {
		b, _ := json.MarshalIndent(review, "", "  ")
		fmt.Println(string(b))
		return
	}

	db, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	out := struct {
		Review *model.ReviewStats `json:"review"`
		DB     *store.Stats       `json:"db"`
	}{review, db}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
