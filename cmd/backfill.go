package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kilianp07/motofleet/core/fleet"
	"github.com/kilianp07/motofleet/core/store"
	"github.com/kilianp07/motofleet/infra/history"
	"github.com/kilianp07/motofleet/infra/logger"
	"github.com/kilianp07/motofleet/jobs/backfill"
)

var (
	backfillYear    int
	backfillFixture string
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Recompute monthly KPIs and store them in the history",
	RunE:  runBackfill,
}

func init() {
	backfillCmd.Flags().IntVar(&backfillYear, "year", 0, "only backfill this year")
	backfillCmd.Flags().StringVar(&backfillFixture, "fixture", "", "read assets from a fixture file")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, reportFlags{fixture: backfillFixture})
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg); err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())
	if err := logger.Setup(cfg.Logging); err != nil {
		return err
	}
	log := logger.New("backfill")

	repo, release, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer release()
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()
	c, err := store.Fetch(ctx, repo)
	if err != nil {
		return err
	}
	hist, closer, err := history.New(cfg.History)
	if err != nil {
		return err
	}
	defer closer.Close()

	years := backfill.Years(c)
	if backfillYear != 0 {
		years = []int{backfillYear}
	}
	e := fleet.NewEngine(cfg.Engine)
	runID := uuid.NewString()
	for _, y := range years {
		res, err := backfill.Backfill(ctx, e, hist, c, y, runID)
		if err != nil {
			return err
		}
		log.Infof("backfilled %d: %d months saved, %d empty", y, res.Saved, res.Skipped)
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\t%d\n", y, res.Saved, res.Skipped)
	}
	return nil
}
