package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [name]",
		Short: "Remove a skill",
		Long:  "Remove a skill along with its card and review history.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.RemoveSkill(cmd.Context(), args[0]); err != nil {
		exitErr("remove skill", err)
	}

	fmt.Printf(`{"ok":true,"skill":%q}`+"\n", args[0])
}
