// Package cli implements the skill-coach CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/config"
	"github.com/rcliao/skill-coach/internal/logger"
	"github.com/rcliao/skill-coach/internal/store"
)

var (
	dbPath     string
	configPath string
	userFlag   int
	verbose    bool

	cfg *config.Config
	log zerolog.Logger
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "skill-coach",
	Short: "Spaced repetition for skills you are learning",
	Long:  "A local-first CLI that tracks skills and schedules reviews with an FSRS memory model. SQLite-backed, single binary.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.Init(verbose)

		c, err := config.Load(getConfigPath())
		if err != nil {
			exitErr("load config", err)
		}
		cfg = c
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $SKILL_COACH_DB or ~/.skill-coach/skills.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $SKILL_COACH_CONFIG or ~/.skill-coach/config.yaml)")
	RootCmd.PersistentFlags().IntVarP(&userFlag, "user", "u", 0, "User ID (default: from config)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GetConfigPath()
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("SKILL_COACH_DB"); env != "" {
		return env
	}
	if cfg != nil && cfg.Storage.Path != "" {
		return cfg.Storage.Path
	}
	return config.DefaultDBPath()
}

func getUserID() int {
	if userFlag != 0 {
		return userFlag
	}
	if cfg != nil {
		return cfg.User.ID
	}
	return 1
}

func openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(getDBPath(), log)
	if err != nil {
		return nil, err
	}
	if r := cfg.Scheduler.DesiredRetention; r != 0 {
		if err := s.SetRetention(r); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
