package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/skill-coach/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import skills, cards and review history from JSON",
		Long:  "Import an export document from a file, or from stdin when no file is given. Skills that already exist are skipped.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var data []byte
	var err error
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read import", err)
	}

	var doc model.ExportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		exitErr("parse import", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	res, err := s.Import(cmd.Context(), &doc)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"skills":%d,"cards":%d,"events":%d,"weights":%d,"skipped":%d}`+"\n",
		res.Skills, res.Cards, res.Events, res.Weights, res.Skipped)
}
