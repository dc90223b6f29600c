package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

// OpportunitiesModel lists the goal and fund contributions still open for a
// month, browsable month by month.
type OpportunitiesModel struct {
	CommonModel
	assembler *projection.Assembler
	ledger    *ledger.Service

	month  calendar.Month
	txs    []*transaction.Transaction
	cursor int
	status string
}

func NewOpportunitiesModel(asm *projection.Assembler, svc *ledger.Service) OpportunitiesModel {
	m := OpportunitiesModel{
		assembler: asm,
		ledger:    svc,
		month:     calendar.MonthOf(asm.Now()),
	}
	m.reload()

	return m
}

func (m OpportunitiesModel) Title() string { return "Saving Opportunities" }

func (m OpportunitiesModel) ShortHelp() string {
	return "Esc: back | ←/→: month | ↑/↓: select | k: skip"
}

func (m OpportunitiesModel) Init() tea.Cmd {
	return nil
}

func (m *OpportunitiesModel) reload() {
	m.txs = m.assembler.Opportunities(m.month)
	m.cursor = min(m.cursor, max(0, len(m.txs)-1))
}

func (m OpportunitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mutationMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.reload()

		return m, nil

	case DataChangedMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.month = m.month.Add(-1)
			m.status = ""
			m.reload()
		case "right", "l":
			m.month = m.month.Add(1)
			m.status = ""
			m.reload()
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.txs)-1 {
				m.cursor++
			}
		case "k":
			if m.cursor < len(m.txs) {
				return m, skipCmd(m.ledger, m.txs[m.cursor], m.month)
			}
		}
	}

	return m, nil
}

func (m OpportunitiesModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  ← %s →\n\n", m.Title(), activeStyle(m.month.Name()))

	if len(m.txs) == 0 {
		b.WriteString("Nothing left to contribute this month.\n")
	}

	var total int64

	for i, tx := range m.txs {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		total += tx.Amount
		fmt.Fprintf(&b, "%s%-11s %-16s %s\n", cursor, tx.Date.String(), transaction.FormatAmount(tx.Amount), tx.Description)
	}

	if len(m.txs) > 0 {
		fmt.Fprintf(&b, "\n  Total: %s\n", activeStyle(transaction.FormatAmount(total)))
	}

	if m.status != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.status) + "\n")
	}

	b.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}
