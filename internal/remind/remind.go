// Package remind runs the desktop reminder loop: it periodically
// checks for due skills and raises a notification when enough have
// piled up.
package remind

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/rcliao/skill-coach/internal/model"
	"github.com/rcliao/skill-coach/internal/store"
)

// checkLimit caps how many due skills a single check reads.
const checkLimit = 100

// maxNamedSkills caps how many skill names appear in a notification.
const maxNamedSkills = 5

// Schedule yields successive check times.
type Schedule interface {
	Next(time.Time) time.Time
}

// ParseSchedule parses a schedule string. Both cron expressions with
// optional seconds ("0 9 * * *", "@hourly") and Go duration strings
// ("30m", "2h") are accepted.
func ParseSchedule(s string) (Schedule, error) {
	if s == "" {
		return nil, fmt.Errorf("schedule string is empty")
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if sched, err := parser.Parse(s); err == nil {
		return sched, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule %q as cron expression or duration: %w", s, err)
	}
	return cron.ConstantDelaySchedule{Delay: d}, nil
}

// DueLister is the slice of the store the reminder needs.
type DueLister interface {
	GetDueReviews(ctx context.Context, p DueParams) ([]model.DueReview, error)
}

// DueParams aliases the store's query parameters so callers can hand
// a Store straight to New.
type DueParams = store.DueParams

// Config controls the reminder loop.
type Config struct {
	Schedule string // cron expression or duration; default "30m"
	UserID   int
	MinDue   int  // notify only at this many due skills; default 1
	Quiet    bool // log instead of sending desktop notifications
}

// Reminder periodically checks for due skills and notifies the user.
type Reminder struct {
	st       DueLister
	schedule Schedule
	userID   int
	minDue   int
	quiet    bool
	logger   zerolog.Logger
	notify   func(title, message string) error
}

// New creates a Reminder. The schedule string is validated here so a
// bad config fails at startup rather than on the first tick.
func New(cfg Config, st DueLister, logger zerolog.Logger) (*Reminder, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "30m"
	}
	sched, err := ParseSchedule(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	minDue := cfg.MinDue
	if minDue <= 0 {
		minDue = 1
	}

	return &Reminder{
		st:       st,
		schedule: sched,
		userID:   cfg.UserID,
		minDue:   minDue,
		quiet:    cfg.Quiet,
		logger:   logger.With().Str("component", "remind").Logger(),
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}, nil
}

// Run checks immediately, then on every schedule tick until the
// context is cancelled. Cancellation is a clean stop, not an error.
func (r *Reminder) Run(ctx context.Context) error {
	r.logger.Info().Int("user", r.userID).Msg("reminder started")

	if err := r.CheckOnce(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("due check failed")
	}

	for {
		next := r.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info().Msg("reminder stopped")
			return nil
		case <-timer.C:
		}

		if err := r.CheckOnce(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("due check failed")
		}
	}
}

// CheckOnce queries due reviews once and notifies when the count
// reaches the threshold. A failed desktop notification is logged, not
// returned; the check itself succeeded.
func (r *Reminder) CheckOnce(ctx context.Context) error {
	due, err := r.st.GetDueReviews(ctx, DueParams{UserID: r.userID, Limit: checkLimit})
	if err != nil {
		return err
	}

	r.logger.Debug().Int("due", len(due)).Msg("checked due reviews")
	if len(due) < r.minDue {
		return nil
	}

	title := fmt.Sprintf("%d skills due for review", len(due))
	if len(due) == 1 {
		title = "1 skill due for review"
	}

	names := lo.Map(due, func(d model.DueReview, _ int) string { return d.Skill.Name })
	message := strings.Join(names, ", ")
	if len(names) > maxNamedSkills {
		message = strings.Join(names[:maxNamedSkills], ", ") +
			fmt.Sprintf(" and %d more", len(names)-maxNamedSkills)
	}

	if r.quiet {
		r.logger.Info().Int("due", len(due)).Str("skills", message).Msg("review reminder")
		return nil
	}

	if err := r.notify(title, message); err != nil {
		r.logger.Warn().Err(err).Msg("failed to send desktop notification")
	}
	return nil
}
