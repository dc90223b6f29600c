package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/report"
)

var flagOpportunityMonth string

var opportunitiesCmd = &cobra.Command{
	Use:     "opportunities",
	Aliases: []string{"opps"},
	Short:   "Goal and emergency fund contributions still open for a month",
	RunE:    runOpportunities,
}

func init() {
	opportunitiesCmd.Flags().StringVarP(&flagOpportunityMonth, "month", "m", "", "Month YYYY-MM (default: current)")
	rootCmd.AddCommand(opportunitiesCmd)
}

func runOpportunities(cmd *cobra.Command, _ []string) error {
	svcs, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svcs.close()

	month := calendar.MonthOf(svcs.assembler.Now())
	if flagOpportunityMonth != "" {
		if month, err = parseMonthArg(flagOpportunityMonth); err != nil {
			return err
		}
	}

	txs := svcs.assembler.Opportunities(month)
	if len(txs) == 0 {
		fmt.Printf("\n  No open contributions for %s.\n", month.Name())
		return nil
	}

	fmt.Println()
	fmt.Println(report.PendingTable(txs))

	return nil
}
