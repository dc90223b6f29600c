package view

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

const dbTimeout = 5 * time.Second

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// DataChangedMsg is sent to the program whenever the settings were written,
// locally or by another process.
type DataChangedMsg struct{}

// DbCtx returns a context with a standard timeout for store operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

type mutationMsg struct {
	status string
	err    error
}

// skipCmd skips the goal or fund contribution behind a virtual transaction.
func skipCmd(svc *ledger.Service, tx *transaction.Transaction, month calendar.Month) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error

		switch tx.VirtualType {
		case transaction.VirtualGoal:
			err = svc.SkipGoalMonth(ctx, tx.VirtualID, month)
		case transaction.VirtualFund:
			err = svc.SkipFundMonth(ctx, month)
		default:
			return mutationMsg{status: "Only goal and fund entries can be skipped."}
		}

		if err != nil {
			return mutationMsg{err: err}
		}

		return mutationMsg{status: fmt.Sprintf("Skipped %s for %s.", tx.Description, month.Name())}
	}
}
