package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/dashboard"
	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/internal/poller"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/cli/ui"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard summary",
	Long: `Show request totals, the last seven days of traffic, top countries and
recent transactions.

Example:
  sui-faucet stats`,
	RunE: runStats,
}

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the dashboard summary on screen",
	Long: `Poll the dashboard summary and print it on every refresh until interrupted.

Example:
  sui-faucet watch --interval 10s`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Refresh interval (default $POLL_INTERVAL_SECONDS)")
}

func newStatsFeed(e *env, interval time.Duration) *dashboard.StatsFeed {
	return dashboard.NewStatsFeed(e.client.Analytics, dashboard.FeedOptions{
		Days:         e.cfg.AnalyticsDays,
		TopLimit:     e.cfg.TopLimit,
		HistoryLimit: e.cfg.HistoryLimit,
		Interval:     interval,
		Logger:       e.logger,
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	feed := newStatsFeed(e, e.cfg.PollInterval)

	var state poller.State[models.AnalyticsStats]
	if jsonOut {
		state = feed.RunOnce(cmd.Context())
	} else {
		s := ui.NewSpinner("Loading statistics...")
		s.Start()
		state = feed.RunOnce(cmd.Context())
		s.Stop()
	}
	if state.Err != nil {
		return fmt.Errorf("failed to load statistics: %w", state.Err)
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), state.Data)
	}
	ui.PrintStats(&state.Data)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	interval := watchInterval
	if interval <= 0 {
		interval = e.cfg.PollInterval
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed := newStatsFeed(e, interval)
	updates, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	feed.Start(ctx)
	defer feed.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case state := <-updates:
			if state.Loading {
				continue
			}
			if jsonOut {
				if state.Err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), state.Err)
					continue
				}
				if err := printJSON(cmd.OutOrStdout(), state.Data); err != nil {
					return err
				}
				continue
			}
			printWatchState(state, interval)
		}
	}
}

func printWatchState(state poller.State[models.AnalyticsStats], interval time.Duration) {
	fmt.Print("\033[H\033[2J")
	if state.HasData {
		ui.PrintStats(&state.Data)
	}
	if state.Err != nil {
		ui.PrintError(state.Err.Error())
	}
	ui.PrintInfo(fmt.Sprintf("Updated %s, next refresh in %s. Ctrl+C to quit.",
		state.UpdatedAt.Format("15:04:05"), interval))
}
