package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/skill-coach/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Run:   runConfigInit,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run:   runConfigShow,
	}

	cmd.AddCommand(initCmd)
	cmd.AddCommand(showCmd)
	RootCmd.AddCommand(cmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil {
		exitErr("config init", fmt.Errorf("config file already exists at %s", path))
	}

	defaults := config.Defaults()
	if err := config.Save(&defaults, path); err != nil {
		exitErr("write config", err)
	}

	fmt.Printf(`{"ok":true,"file":%q}`+"\n", path)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		exitErr("marshal config", err)
	}
	fmt.Print(string(data))
}
