package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the outage in progress and the next one ahead",
	Long: `Resolves the cached schedule against the current time. Run "schedule"
first if the cache is empty or days old.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	report, err := svc.NextOutage()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderNext(report))
	return nil
}
