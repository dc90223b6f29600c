package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/previsao/internal/encoding"
	"github.com/MrJamesThe3rd/previsao/internal/ledger/store"
)

var importCmd = &cobra.Command{
	Use:   "import <backup.json>",
	Short: "Replace the stored settings with a backup file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	raw, err := encoding.ReadUTF8(f)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	settings, err := store.Decode(raw)
	if err != nil {
		return err
	}

	svcs, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svcs.close()

	if err := svcs.ledger.Replace(cmd.Context(), settings); err != nil {
		return err
	}

	fmt.Printf("  Imported %d transactions, %d goals, %d cards.\n",
		len(settings.Transactions), len(settings.Goals), len(settings.CreditCards))

	return nil
}
