package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/remind"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Watch for due skills and send desktop notifications",
		Long:  "Run in the foreground and notify when skills come due. The schedule takes a duration like \"30m\" or a cron expression like \"0 9 * * *\". Stop with Ctrl-C.",
		Run:   runRemind,
	}

	cmd.Flags().StringP("schedule", "s", "", "check schedule (duration or cron expression)")
	cmd.Flags().BoolP("quiet", "q", false, "log due skills instead of notifying")
	cmd.Flags().Bool("once", false, "check once and exit")

	RootCmd.AddCommand(cmd)
}

func runRemind(cmd *cobra.Command, args []string) {
	schedule, _ := cmd.Flags().GetString("schedule")
	quiet, _ := cmd.Flags().GetBool("quiet")
	once, _ := cmd.Flags().GetBool("once")

	if schedule == "" {
		schedule = cfg.Remind.Schedule
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	r, err := remind.New(remind.Config{
		Schedule: schedule,
		UserID:   getUserID(),
		MinDue:   cfg.Remind.MinDue,
		Quiet:    quiet || cfg.Remind.Quiet,
	}, s, log)
	if err != nil {
		exitErr("start reminder", err)
	}

	if once {
		if err := r.CheckOnce(cmd.Context()); err != nil {
			exitErr("check due reviews", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Run(ctx); err != nil {
		exitErr("reminder", err)
	}
}
