// Package report renders projections for terminal output.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrJamesThe3rd/previsao/internal/competence"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

var (
	ColorBorder = lipgloss.Color("240")
	ColorAccent = lipgloss.Color("205")
	ColorIncome = lipgloss.Color("#879A39")
	ColorSpend  = lipgloss.Color("#D14D41")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	virtualStyle = lipgloss.NewStyle().Padding(0, 1).Faint(true)
	incomeStyle  = lipgloss.NewStyle().Foreground(ColorIncome)
	spendStyle   = lipgloss.NewStyle().Foreground(ColorSpend)
)

// PendingHeaders are the columns of PendingRows.
var PendingHeaders = []string{"Competência", "Data", "Descrição", "Categoria", "Valor", "Origem"}

func PendingRows(txs []*transaction.Transaction) [][]string {
	rows := make([][]string, len(txs))
	for i, tx := range txs {
		rows[i] = []string{
			competence.Of(tx).Short(),
			tx.Date.String(),
			tx.Description,
			tx.Category,
			transaction.FormatAmount(tx.Signed()),
			tx.Origin(),
		}
	}

	return rows
}

// PendingTable renders txs as a bordered table. Projected rows are dimmed.
func PendingTable(txs []*transaction.Transaction) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(PendingHeaders...).
		Rows(PendingRows(txs)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(txs) && txs[row].IsVirtual:
				return virtualStyle
			}

			return cellStyle
		})

	return t.String()
}

// Chart draws one horizontal bar per month, scaled to width cells.
func Chart(totals []projection.MonthlyTotal, width int) string {
	var peak int64
	for _, m := range totals {
		peak = max(peak, abs(m.Net))
	}

	var b strings.Builder

	for _, m := range totals {
		n := 0
		if peak > 0 {
			n = int(abs(m.Net) * int64(width) / peak)
		}

		style := incomeStyle
		if m.Net < 0 {
			style = spendStyle
		}

		bar := style.Render(strings.Repeat("█", n))
		fmt.Fprintf(&b, "%-7s %s %s\n", m.Label, transaction.FormatAmount(m.Net), bar)
	}

	return b.String()
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
