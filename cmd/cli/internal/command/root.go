package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/config"
	"github.com/MrJamesThe3rd/previsao/internal/events"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/ledger/store"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
)

var flagQuiet bool

var rootCmd = &cobra.Command{
	Use:           "previsao",
	Short:         "Pending projections for your personal finances",
	Long:          "Project goals, emergency fund, card bills and recurring income into the months ahead.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPending,
}

// Execute is the entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// services bundles what every command needs, opened from the environment.
type services struct {
	ledger    *ledger.Service
	assembler *projection.Assembler
	close     func()
}

func openServices(ctx context.Context) (*services, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	repo, closeStore, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}

	closers := []func() error{closeStore}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				slog.Error("failed to close", "error", err)
			}
		}
	}

	bus := events.NewBus()

	if cfg.AMQP.URL != "" {
		bridge, err := events.DialAMQPBridge(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("connect to AMQP: %w", err)
		}

		closers = append(closers, bridge.Close)
		bus.Subscribe(bridge.Handler())
	}

	svc := ledger.NewService(repo, bus)
	if err := svc.Load(ctx); err != nil {
		closeAll()
		return nil, fmt.Errorf("load settings: %w", err)
	}

	opts := []projection.Option{
		projection.WithSettleDelay(cfg.Projection.SettleDelay),
		projection.WithFallbackPayday(cfg.Projection.Payday),
	}

	if cfg.Projection.StrictGoals {
		opts = append(opts, projection.WithMatcher(projection.MatchOwner))
	}

	return &services{
		ledger:    svc,
		assembler: projection.NewAssembler(svc, opts...),
		close:     closeAll,
	}, nil
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}

	fmt.Fprintf(os.Stderr, format, args...)
}

func parseMonthArg(s string) (calendar.Month, error) {
	m, err := calendar.ParseMonth(s)
	if err != nil {
		return calendar.Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}

	return m, nil
}
