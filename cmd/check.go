package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one monitoring pass and deliver any due notification",
	Long: `Runs a single monitoring cycle: refresh the schedule, look for an
outage entering the warning window and for last-minute changes to the tracked
outage, and deliver whatever is due. Useful from an external scheduler as an
alternative to the daemon.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	report, err := svc.CheckUpcoming(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderUpcoming(report))
	return nil
}
