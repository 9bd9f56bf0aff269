package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setAddressCmd = &cobra.Command{
	Use:     "set-address <city> <street> <house>",
	Short:   "Set the address outages are tracked for",
	Example: `  blackout-tracker set-address "Київ" "вулиця Хрещатик" "1"`,
	Args:    cobra.ExactArgs(3),
	RunE:    runSetAddress,
}

func init() {
	rootCmd.AddCommand(setAddressCmd)
}

func runSetAddress(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	addr, err := svc.SetAddress(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Address saved: %s\n", addr)
	fmt.Fprintln(cmd.OutOrStdout(), `Run "blackout-tracker schedule" to fetch the outage schedule.`)
	return nil
}
