// Package cmd defines the CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/app"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "blackout-tracker",
	Short: "Scheduled power-outage tracker for a DTEK address",
	Long: `blackout-tracker scrapes the DTEK shutdowns page for one configured
address, caches the schedule, answers questions about upcoming outages and
can run as a daemon that warns before an outage starts and reports schedule
changes near its end.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func newService() (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg)
}
