package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mendonca-galvao/horaextra/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		pterm.Info.Printfln("Config file: %s", path)
		printTable(settingsTable(cfg))
		return nil
	},
}

func settingsTable(c config.Config) [][]string {
	data := [][]string{{"Key", "Value"}}
	for _, s := range c.Settings() {
		data = append(data, []string{s.Key, s.Value})
	}
	return data
}
