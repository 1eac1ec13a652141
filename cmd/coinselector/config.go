package main

import (
	"github.com/spf13/cobra"
	"github.com/vulpemventures/coinselector/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "print the current configuration",
	Long: "this command prints the effective configuration, made of the " +
		"defaults overridden by the COINSELECTOR_* env vars",
	RunE: configPrint,
}

func configPrint(_ *cobra.Command, _ []string) error {
	settings := config.AllSettings()
	settings["db_dir"] = config.GetDbDir()
	settings["stats_dir"] = config.GetStatsDir()
	return printJSON(settings)
}
