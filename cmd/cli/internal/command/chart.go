package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/previsao/internal/report"
)

var flagWidth int

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Monthly net totals for the current month and the next five",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().IntVarP(&flagWidth, "width", "w", 40, "Bar width in cells")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}

	svcs, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svcs.close()

	res, err := svcs.assembler.Assemble(cmd.Context(), f)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(report.Chart(res.MonthlyNetTotals, flagWidth))

	return nil
}
