package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

var dayPossible bool

var dayCmd = &cobra.Command{
	Use:     "day <day-of-week>",
	Short:   "List the cached outage slots for one day of the week",
	Example: "  blackout-tracker day monday\n  blackout-tracker day Середа --possible",
	Args:    cobra.ExactArgs(1),
	RunE:    runDay,
}

func init() {
	dayCmd.Flags().BoolVar(&dayPossible, "possible", false, "show the weekly forecast instead of the confirmed schedule")
	rootCmd.AddCommand(dayCmd)
}

func runDay(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	kind := model.KindActual
	if dayPossible {
		kind = model.KindPossibleWeek
	}
	report, err := svc.OutagesForDay(args[0], kind)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderDay(report))
	return nil
}
