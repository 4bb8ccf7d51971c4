package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List skills due for review, most overdue first",
		Run:   runDue,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runDue(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	due, err := s.GetDueReviews(cmd.Context(), store.DueParams{
		UserID: getUserID(),
		Limit:  limit,
	})
	if err != nil {
		exitErr("due", err)
	}

	b, _ := json.MarshalIndent(due, "", "  ")
	fmt.Println(string(b))
}
