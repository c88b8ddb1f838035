// Package cmd holds the motofleet command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/motofleet/app"
	"github.com/kilianp07/motofleet/config"
	"github.com/kilianp07/motofleet/infra/logger"
)

var (
	cfgPath  string
	logLevel string
	apiAddr  string
	noAPI    bool
)

var rootCmd = &cobra.Command{
	Use:          "motofleet",
	Short:        "Rebuild rental periods and franchisee revenue from fleet snapshots",
	Long:         "Without a subcommand motofleet serves reports: it follows the configured store, recomputes on every change and publishes to the configured sinks and the HTTP API.",
	SilenceUsage: true,
	RunE:         serve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")
	rootCmd.Flags().StringVar(&apiAddr, "addr", "", "override api.address")
	rootCmd.Flags().BoolVar(&noAPI, "no-api", false, "do not serve the HTTP API")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func applyOverrides(cfg *config.Config) error {
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if apiAddr != "" {
		cfg.API.Address = apiAddr
	}
	if noAPI {
		cfg.API.Disabled = true
	}
	return cfg.Logging.Validate()
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(cfg); err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	logger.New("main").Infof("store %s, refresh %s, report period %s", cfg.Store.Type, cfg.Schedule.Refresh, cfg.Report.Period)
	return svc.Run(ctx)
}
