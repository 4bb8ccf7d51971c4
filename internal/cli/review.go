package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/fsrs"
	"github.com/rcliao/skill-coach/internal/model"
	"github.com/rcliao/skill-coach/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "review [name] [rating]",
		Short: "Record a review outcome",
		Long:  "Record a review outcome and reschedule the skill. Rating is again, hard, good, easy or 1-4.",
		Args:  cobra.ExactArgs(2),
		Run:   runReview,
	}

	RootCmd.AddCommand(cmd)
}

func runReview(cmd *cobra.Command, args []string) {
	rating, err := fsrs.ParseRating(args[1])
	if err != nil {
		exitErr("review", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	// A concurrent review of the same skill loses the version check
	// and surfaces ErrConflict; retry those, fail fast on the rest.
	var result *model.ReviewResult
	operation := func() error {
		res, err := s.ReviewSkill(cmd.Context(), store.ReviewParams{
			SkillName: args[0],
			Rating:    rating,
			UserID:    getUserID(),
		})
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 50 * time.Millisecond
	eb.MaxInterval = 1 * time.Second

	if err := backoff.Retry(operation, backoff.WithMaxRetries(eb, 3)); err != nil {
		exitErr("review", err)
	}

	b, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(b))
}
