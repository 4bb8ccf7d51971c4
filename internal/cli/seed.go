package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/skill-coach/internal/store"
)

type seedSkill struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

type seedFile struct {
	Skills []seedSkill `yaml:"skills"`
}

// defaultDeck is the built-in starter set used when no seed file is
// given.
var defaultDeck = []seedSkill{
	{Name: "goroutines", Category: "language", Description: "Concurrency with goroutines and the go statement"},
	{Name: "channels", Category: "language", Description: "Channel send/receive, select, closing"},
	{Name: "interfaces", Category: "language", Description: "Implicit satisfaction; accept interfaces, return structs"},
	{Name: "sql-joins", Category: "concept", Description: "Inner, left and cross joins"},
	{Name: "sql-indexes", Category: "concept", Description: "B-tree indexes and when they help"},
	{Name: "big-o", Category: "algorithm", Description: "Asymptotic complexity of common operations"},
	{Name: "bfs-dfs", Category: "algorithm", Description: "Graph traversal orders and their uses"},
	{Name: "git-rebase", Category: "tool", Description: "Rewriting history and resolving conflicts"},
	{Name: "docker-images", Category: "tool", Description: "Layers, build context, multi-stage builds"},
	{Name: "http-caching", Category: "concept", Description: "Cache-Control, ETag, validation vs expiration"},
}

func init() {
	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Add a starter deck of skills",
		Long:  "Add skills in bulk from a YAML file, or the built-in starter deck when no file is given. Skills that already exist are skipped.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSeed,
	}

	RootCmd.AddCommand(cmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	deck := defaultDeck
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			exitErr("read seed file", err)
		}
		var f seedFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			exitErr("parse seed file", err)
		}
		deck = f.Skills
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	added, skipped := 0, 0
	for _, sk := range deck {
		_, err := s.AddSkill(cmd.Context(), store.AddSkillParams{
			Name:        sk.Name,
			Category:    sk.Category,
			Description: sk.Description,
			UserID:      getUserID(),
		})
		switch {
		case errors.Is(err, store.ErrSkillExists):
			skipped++
		case err != nil:
			exitErr("seed", err)
		default:
			added++
		}
	}

	fmt.Printf(`{"ok":true,"added":%d,"skipped":%d}`+"\n", added, skipped)
}
