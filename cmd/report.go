package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/motofleet/config"
	"github.com/kilianp07/motofleet/core/factory"
	"github.com/kilianp07/motofleet/core/fleet"
	corehistory "github.com/kilianp07/motofleet/core/history"
	"github.com/kilianp07/motofleet/core/model"
	"github.com/kilianp07/motofleet/core/report"
	"github.com/kilianp07/motofleet/core/store"
	"github.com/kilianp07/motofleet/infra/history"
	"github.com/kilianp07/motofleet/infra/logger"
	"github.com/kilianp07/motofleet/pkg/export"

	// store backends
	_ "github.com/kilianp07/motofleet/infra/store/firestore"
	_ "github.com/kilianp07/motofleet/infra/store/fixture"
	_ "github.com/kilianp07/motofleet/infra/store/sqlstore"
)

type reportFlags struct {
	fixture string
	format  string
	period  string
	year    int
	month   int
}

var repFlags reportFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute a report once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := buildReport(cmd, repFlags)
		if err != nil {
			return err
		}
		return export.WriteReport(cmd.OutOrStdout(), r, repFlags.format)
	},
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Print franchisees above and below the occupancy goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := buildReport(cmd, repFlags)
		if err != nil {
			return err
		}
		if repFlags.format == "csv" {
			return export.WriteGoalsCSV(cmd.OutOrStdout(), r.Goals)
		}
		return export.WriteJSON(cmd.OutOrStdout(), r.Goals)
	},
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, goalsCmd} {
		c.Flags().StringVar(&repFlags.fixture, "fixture", "", "read assets from a YAML or JSON fixture instead of the configured store")
		c.Flags().StringVarP(&repFlags.format, "format", "f", "json", "output format: json or csv")
		c.Flags().StringVarP(&repFlags.period, "period", "p", "", "period: current, all, YYYY or YYYY-MM")
		c.Flags().IntVar(&repFlags.year, "year", 0, "calendar year")
		c.Flags().IntVar(&repFlags.month, "month", 0, "calendar month, requires --year")
		rootCmd.AddCommand(c)
	}
}

// loadConfig reads the config file. With a fixture and no explicit --config
// the defaults are used instead.
func loadConfig(cmd *cobra.Command, f reportFlags) (*config.Config, error) {
	var cfg *config.Config
	if f.fixture != "" && !cmd.Flags().Changed("config") {
		cfg = config.Default()
	} else {
		c, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if f.fixture != "" {
		cfg.Store = factory.ModuleConfig{Type: "fixture", Conf: map[string]any{"path": f.fixture}}
	}
	return cfg, nil
}

func resolvePeriod(cfg *config.Config, e *fleet.Engine, f reportFlags) (fleet.Period, error) {
	switch {
	case f.year != 0:
		p := fleet.Month(f.year, f.month)
		return p, p.Validate()
	case f.month != 0:
		return fleet.AllTime, fmt.Errorf("--month requires --year")
	case f.period != "":
		return config.ReportConfig{Period: f.period}.Resolve(e)
	}
	return cfg.Report.Resolve(e)
}

// openRepository builds the configured store and returns a func releasing it.
// Dates without an offset are read in the engine zone.
func openRepository(cfg *config.Config) (store.Repository, func(), error) {
	model.SetLocation(cfg.Engine.Location())
	repo, err := store.NewRepository(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("store %s: %w", cfg.Store.Type, err)
	}
	release := func() {}
	if c, ok := repo.(io.Closer); ok {
		release = func() {
			if err := c.Close(); err != nil {
				logger.New("cmd").Warnf("close store: %v", err)
			}
		}
	}
	return repo, release, nil
}

func buildReport(cmd *cobra.Command, f reportFlags) (report.Report, error) {
	if f.format != "json" && f.format != "csv" {
		return report.Report{}, fmt.Errorf("unknown format %q", f.format)
	}
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return report.Report{}, err
	}
	if err := applyOverrides(cfg); err != nil {
		return report.Report{}, err
	}
	logger.SetOutput(cmd.ErrOrStderr())
	if err := logger.Setup(cfg.Logging); err != nil {
		return report.Report{}, err
	}

	repo, release, err := openRepository(cfg)
	if err != nil {
		return report.Report{}, err
	}
	defer release()
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	c, err := store.Fetch(ctx, repo)
	if err != nil {
		return report.Report{}, err
	}

	e := fleet.NewEngine(cfg.Engine)
	p, err := resolvePeriod(cfg, e, f)
	if err != nil {
		return report.Report{}, err
	}
	hist, closer, err := history.New(cfg.History)
	if err != nil {
		return report.Report{}, err
	}
	defer closer.Close()
	prev, err := corehistory.Previous(ctx, hist, p)
	if err != nil {
		return report.Report{}, err
	}
	return report.NewBuilder(e, logger.New("report")).BuildWithPrevious(c, p, prev), nil
}
