package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	schedulePossible bool
	scheduleRefresh  bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the outage schedule for the configured address",
	Long: `Shows the confirmed outage schedule for today and tomorrow. The cached
schedule is served while it is fresh; otherwise the provider page is scraped,
which takes up to the configured fetcher timeout.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&schedulePossible, "possible", false, "include the weekly forecast of possible outages")
	scheduleCmd.Flags().BoolVar(&scheduleRefresh, "refresh", false, "bypass the cache and fetch from the provider")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	report, err := svc.CheckSchedule(ctx, schedulePossible, scheduleRefresh)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderSchedule(report))
	return nil
}
