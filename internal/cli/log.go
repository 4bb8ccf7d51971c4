package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the review history, newest first",
		Run:   runLog,
	}

	cmd.Flags().StringP("skill", "s", "", "Filter by skill name")
	cmd.Flags().String("since", "", "Only reviews within this window (e.g. 7d, 48h)")
	cmd.Flags().IntP("limit", "l", 50, "Max results")

	RootCmd.AddCommand(cmd)
}

func runLog(cmd *cobra.Command, args []string) {
	skillName, _ := cmd.Flags().GetString("skill")
	sinceStr, _ := cmd.Flags().GetString("since")
	limit, _ := cmd.Flags().GetInt("limit")

	var since time.Time
	if sinceStr != "" {
		d, err := parseLookback(sinceStr)
		if err != nil {
			exitErr("log", err)
		}
		since = time.Now().Add(-d)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	events, err := s.ListReviewLog(cmd.Context(), store.ReviewLogParams{
		UserID:    getUserID(),
		SkillName: skillName,
		Since:     since,
		Limit:     limit,
	})
	if err != nil {
		exitErr("log", err)
	}

	b, _ := json.MarshalIndent(events, "", "  ")
	fmt.Println(string(b))
}

// parseLookback accepts Go durations plus a day suffix ("7d").
func parseLookback(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		if n, err := strconv.Atoi(strings.TrimSuffix(s, "d")); err == nil {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
