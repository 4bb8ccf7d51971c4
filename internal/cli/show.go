package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a skill with its card and current recall probability",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sk, err := s.GetSkillCard(cmd.Context(), getUserID(), args[0])
	if err != nil {
		exitErr("show", err)
	}

	b, _ := json.MarshalIndent(sk, "", "  ")
	fmt.Println(string(b))
}
