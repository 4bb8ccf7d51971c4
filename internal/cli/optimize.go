package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/model"
	"github.com/rcliao/skill-coach/internal/optimizer"
	"github.com/rcliao/skill-coach/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Fit scheduler weights to your review history",
		Long:  "Train personalized scheduler weights on the accumulated review history and store them for future scheduling. Needs a reasonably sized history to work with.",
		Run:   runOptimize,
	}

	cmd.Flags().Bool("dry-run", false, "train but do not store the weights")

	RootCmd.AddCommand(cmd)
}

func runOptimize(cmd *cobra.Command, args []string) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	// The whole history, not the default page.
	events, err := s.ListReviewLog(cmd.Context(), store.ReviewLogParams{
		UserID: getUserID(),
		Limit:  100000,
	})
	if err != nil {
		exitErr("read review log", err)
	}

	opt := optimizer.New(optimizer.Config{
		Epochs:       cfg.Optimizer.Epochs,
		LearningRate: cfg.Optimizer.LearningRate,
		MinReviews:   cfg.Optimizer.MinReviews,
	}, log)

	result, err := opt.Train(cmd.Context(), events)
	if err != nil {
		exitErr("optimize", err)
	}

	if !dryRun {
		err := s.PutUserWeights(cmd.Context(), model.UserWeights{
			UserID:      getUserID(),
			Weights:     result.Weights,
			ReviewCount: result.ReviewCount,
		})
		if err != nil {
			exitErr("store weights", err)
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr("marshal result", err)
	}
	fmt.Println(string(data))
}
