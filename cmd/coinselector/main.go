package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	appconfig "github.com/vulpemventures/coinselector/internal/app-config"
	"github.com/vulpemventures/coinselector/internal/config"
	prompublisher "github.com/vulpemventures/coinselector/internal/infrastructure/event-bus/prometheus"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	printEvents bool

	appCfg   *appconfig.AppConfig
	registry *prometheus.Registry

	rootCmd = &cobra.Command{
		Use:   "coinselector",
		Short: "CLI for the coinselector wallet engine",
		Long: "This CLI lets you manage the utxo set of a wallet and select the " +
			"coins to spend with one of the supported strategies",
		PersistentPreRunE: initApp,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return closeApp()
		},
		SilenceUsage: true,
		Version:      formatVersion(),
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(
		&printEvents, "events", false,
		"print the events emitted while running the command",
	)
	rootCmd.AddCommand(
		configCmd, utxoCmd, selectCmd, coinControlCmd, estimateFeeCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		closeApp()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initApp(cmd *cobra.Command, _ []string) error {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	// Printing the config doesn't need any service.
	if cmd == configCmd {
		return nil
	}

	registry = prometheus.NewRegistry()
	appCfg = &appconfig.AppConfig{
		Network:              config.GetNetwork(),
		DustThreshold:        config.GetUint64(config.DustThresholdKey),
		MinConfirmations:     config.GetUint32(config.MinConfirmationsKey),
		BnBTimeout:           config.GetBnBTimeout(),
		ConsolidateMaxInputs: config.GetInt(config.ConsolidateMaxInputsKey),
		AvoidChangeMaxInputs: config.GetInt(config.AvoidChangeMaxInputsKey),
		RepoType:             config.GetString(config.DatabaseTypeKey),
		RepoConfig:           config.GetDbDir(),
		MetricsRegisterer:    registry,
	}
	if err := appCfg.Validate(); err != nil {
		appCfg = nil
		return fmt.Errorf("invalid app config: %w", err)
	}
	return nil
}

func closeApp() error {
	if appCfg == nil {
		return nil
	}
	cfg := appCfg
	appCfg = nil
	cfg.Close()

	if printEvents {
		for event := range cfg.EventBus().Events() {
			if err := printJSON(eventInfoFromDomain(event)); err != nil {
				return err
			}
		}
	}

	if !config.GetBool(config.NoStatsKey) {
		path, err := prompublisher.DumpStats(config.GetStatsDir(), registry)
		if err != nil {
			log.WithError(err).Warn("failed to dump stats")
			return nil
		}
		log.Debugf("stats dumped to %s", path)
	}
	return nil
}

func formatVersion() string {
	return fmt.Sprintf(
		"\nVersion: %s\nCommit: %s\nDate: %s", version, commit, date,
	)
}
