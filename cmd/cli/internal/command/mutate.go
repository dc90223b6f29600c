package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

var payCmd = &cobra.Command{
	Use:   "pay <transaction-id>",
	Short: "Mark a transaction as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(s *services) error {
			return s.ledger.SetStatus(cmd.Context(), args[0], transaction.StatusPaid)
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <transaction-id> <YYYY-MM>",
	Short: "Assign a transaction to another competence month",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := parseMonthArg(args[1])
		if err != nil {
			return err
		}

		return mutate(cmd, func(s *services) error {
			return s.ledger.SetPaymentMonth(cmd.Context(), args[0], m)
		})
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Skip a goal or emergency fund contribution for a month",
}

var skipGoalCmd = &cobra.Command{
	Use:   "goal <goal-id> <YYYY-MM>",
	Short: "Skip a goal installment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := parseMonthArg(args[1])
		if err != nil {
			return err
		}

		return mutate(cmd, func(s *services) error {
			return s.ledger.SkipGoalMonth(cmd.Context(), args[0], m)
		})
	},
}

var skipFundCmd = &cobra.Command{
	Use:   "fund <YYYY-MM>",
	Short: "Skip the emergency fund contribution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := parseMonthArg(args[0])
		if err != nil {
			return err
		}

		return mutate(cmd, func(s *services) error {
			return s.ledger.SkipFundMonth(cmd.Context(), m)
		})
	},
}

func init() {
	skipCmd.AddCommand(skipGoalCmd, skipFundCmd)
	rootCmd.AddCommand(payCmd, moveCmd, skipCmd)
}

func mutate(cmd *cobra.Command, fn func(s *services) error) error {
	svcs, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svcs.close()

	if err := fn(svcs); err != nil {
		return err
	}

	fmt.Println("  Saved.")

	return nil
}
