package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Fix overflowed dates and fill gaps in recurring series",
	RunE:  runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, _ []string) error {
	svcs, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svcs.close()

	res, err := svcs.assembler.Repair(cmd.Context())
	if err != nil {
		return err
	}

	if !res.Changed() {
		fmt.Println("  Settings already consistent.")
		return nil
	}

	fmt.Printf("  Sanitized %d dates, created %d recurring transactions in %d passes.\n", res.Sanitized, res.Healed, res.Passes)

	return nil
}
