package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/previsao/internal/projection"
	"github.com/MrJamesThe3rd/previsao/internal/report"
)

var (
	flagText     string
	flagCategory string
	flagMonth    string
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending transactions for the next months",
	RunE:  runPending,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, pendingCmd, chartCmd} {
		c.Flags().StringVarP(&flagText, "search", "s", "", "Filter by description (substring, case-insensitive)")
		c.Flags().StringVarP(&flagCategory, "category", "c", "", "Filter by category")
	}

	pendingCmd.Flags().StringVarP(&flagMonth, "month", "m", "", "Only show competence month YYYY-MM")
	rootCmd.Flags().StringVarP(&flagMonth, "month", "m", "", "Only show competence month YYYY-MM")

	rootCmd.AddCommand(pendingCmd)
}

func filterFromFlags() (projection.Filter, error) {
	f := projection.Filter{Text: flagText, Category: flagCategory}

	if flagMonth != "" {
		m, err := parseMonthArg(flagMonth)
		if err != nil {
			return f, err
		}

		f.Month = &m
	}

	return f, nil
}

func runPending(cmd *cobra.Command, _ []string) error {
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

	if len(res.Pending) == 0 {
		fmt.Println("\n  Nothing pending.")
		return nil
	}

	fmt.Println()
	fmt.Println(report.PendingTable(res.Pending))
	progress("  %d pending\n", len(res.Pending))

	return nil
}
