package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export skills, cards and review history as JSON",
		Long:  "Export the whole database as a single JSON document, to stdout or to a file with -o.",
		Run:   runExport,
	}

	cmd.Flags().StringP("out", "o", "", "write to file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	doc, err := s.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		exitErr("marshal export", err)
	}

	if out == "" {
		fmt.Println(string(data))
		return
	}

	if err := os.WriteFile(out, data, 0o600); err != nil {
		exitErr("write export file", err)
	}
	fmt.Printf(`{"ok":true,"file":%q,"skills":%d}`+"\n", out, len(doc.Skills))
}
