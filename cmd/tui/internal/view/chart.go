package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/previsao/internal/projection"
	"github.com/MrJamesThe3rd/previsao/internal/report"
)

const defaultBarWidth = 40

type ChartModel struct {
	CommonModel
	assembler *projection.Assembler

	totals  []projection.MonthlyTotal
	loading bool
	err     error
}

func NewChartModel(asm *projection.Assembler) ChartModel {
	return ChartModel{assembler: asm, loading: true}
}

func (m ChartModel) Title() string     { return "Monthly Net" }
func (m ChartModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m ChartModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ChartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadChartMsg:
		m.loading = false
		m.totals, m.err = msg.totals, msg.err

		return m, nil

	case DataChangedMsg:
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m ChartModel) barWidth() int {
	if m.Width <= 0 {
		return defaultBarWidth
	}

	return max(10, min(defaultBarWidth*2, m.Width-32))
}

func (m ChartModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Projecting monthly totals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render(m.Title()),
		report.Chart(m.totals, m.barWidth()),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	))
}

type loadChartMsg struct {
	totals []projection.MonthlyTotal
	err    error
}

func (m ChartModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.assembler.Assemble(ctx, projection.Filter{})
		if err != nil {
			return loadChartMsg{err: err}
		}

		return loadChartMsg{totals: res.MonthlyNetTotals}
	}
}
