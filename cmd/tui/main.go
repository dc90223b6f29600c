package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/previsao/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/previsao/internal/config"
	"github.com/MrJamesThe3rd/previsao/internal/events"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/ledger/store"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
)

type model struct {
	ledgerService *ledger.Service
	assembler     *projection.Assembler

	currentView View
	size        tea.WindowSizeMsg

	pendingView       view.PendingModel
	chartView         view.ChartModel
	opportunitiesView view.OpportunitiesModel
	restoreView       view.RestoreModel
}

type View int

const (
	ViewMenu          View = 0
	ViewPending       View = 1
	ViewChart         View = 2
	ViewOpportunities View = 3
	ViewRestore       View = 4
)

func initialModel(svc *ledger.Service, asm *projection.Assembler) model {
	return model{
		ledgerService:     svc,
		assembler:         asm,
		currentView:       ViewMenu,
		pendingView:       view.NewPendingModel(asm, svc),
		chartView:         view.NewChartModel(asm),
		opportunitiesView: view.NewOpportunitiesModel(asm, svc),
		restoreView:       view.NewRestoreModel(svc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewPending
				m.pendingView = view.NewPendingModel(m.assembler, m.ledgerService)

				return m, tea.Batch(m.pendingView.Init(), m.resize())
			case "2":
				m.currentView = ViewChart
				m.chartView = view.NewChartModel(m.assembler)

				return m, tea.Batch(m.chartView.Init(), m.resize())
			case "3":
				m.currentView = ViewOpportunities
				m.opportunitiesView = view.NewOpportunitiesModel(m.assembler, m.ledgerService)

				return m, m.opportunitiesView.Init()
			case "4":
				m.currentView = ViewRestore
				m.restoreView = view.NewRestoreModel(m.ledgerService)

				return m, m.restoreView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewPending:
		var newModel tea.Model
		newModel, cmd = m.pendingView.Update(msg)
		m.pendingView = newModel.(view.PendingModel)
	case ViewChart:
		var newModel tea.Model
		newModel, cmd = m.chartView.Update(msg)
		m.chartView = newModel.(view.ChartModel)
	case ViewOpportunities:
		var newModel tea.Model
		newModel, cmd = m.opportunitiesView.Update(msg)
		m.opportunitiesView = newModel.(view.OpportunitiesModel)
	case ViewRestore:
		var newModel tea.Model
		newModel, cmd = m.restoreView.Update(msg)
		m.restoreView = newModel.(view.RestoreModel)
	}

	return m, cmd
}

// resize replays the last window size to a freshly built view.
func (m model) resize() tea.Cmd {
	if m.size.Width == 0 {
		return nil
	}

	size := m.size

	return func() tea.Msg { return size }
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Previsão TUI\n\n" +
				"1. Pending Transactions\n" +
				"2. Monthly Net Chart\n" +
				"3. Saving Opportunities\n" +
				"4. Restore Backup\n\n" +
				"q. Quit",
		)
	case ViewPending:
		return m.pendingView.View()
	case ViewChart:
		return m.chartView.View()
	case ViewOpportunities:
		return m.opportunitiesView.View()
	case ViewRestore:
		return m.restoreView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	repo, closeStore, err := store.Open(cfg)
	if err != nil {
		slog.Error("failed to open settings store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()
	svc := ledger.NewService(repo, bus)

	if err := svc.Load(ctx); err != nil {
		slog.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	opts := []projection.Option{
		projection.WithSettleDelay(cfg.Projection.SettleDelay),
		projection.WithFallbackPayday(cfg.Projection.Payday),
	}

	if cfg.Projection.StrictGoals {
		opts = append(opts, projection.WithMatcher(projection.MatchOwner))
	}

	p := tea.NewProgram(initialModel(svc, projection.NewAssembler(svc, opts...)), tea.WithAltScreen())

	bus.Subscribe(func(events.Event) { p.Send(view.DataChangedMsg{}) })

	if cfg.AMQP.URL != "" {
		bridge, err := events.DialAMQPBridge(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			slog.Error("failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer bridge.Close()

		bus.Subscribe(bridge.Handler())

		go func() {
			err := bridge.Listen(ctx, func(events.Event) {
				if err := svc.Load(ctx); err != nil {
					slog.Error("failed to reload settings", "error", err)
					return
				}

				p.Send(view.DataChangedMsg{})
			})
			if err != nil {
				slog.Error("stopped listening for events", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
