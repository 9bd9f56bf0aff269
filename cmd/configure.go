package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	monitorEnabled  bool
	notifyBefore    int
	monitorInterval int
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure outage monitoring",
	Long: `Sets the monitoring parameters used by the daemon and by "check":
whether monitoring runs at all, how many minutes of warning you want before
an outage starts, and how often the schedule is re-checked.`,
	Example: `  blackout-tracker configure --before 30
  blackout-tracker configure --enabled=false`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().BoolVar(&monitorEnabled, "enabled", true, "enable or disable monitoring")
	configureCmd.Flags().IntVar(&notifyBefore, "before", 60, "minutes of warning before an outage starts")
	configureCmd.Flags().IntVar(&monitorInterval, "interval", 60, "minutes between schedule checks")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	m, err := svc.ConfigureMonitoring(monitorEnabled, notifyBefore, monitorInterval)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderMonitoring(m))
	return nil
}
