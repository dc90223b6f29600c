package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/competence"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
	"github.com/MrJamesThe3rd/previsao/internal/report"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

type pendingState int

const (
	pendingStateBrowse pendingState = iota
	pendingStateFilter
	pendingStateMove
)

type PendingModel struct {
	CommonModel
	assembler *projection.Assembler
	ledger    *ledger.Service

	state  pendingState
	table  table.Model
	txs    []*transaction.Transaction
	form   *huh.Form
	filter projection.Filter

	loading bool
	err     error
	status  string

	// Form bindings
	formText     string
	formCategory string
	formMonth    string
}

func NewPendingModel(asm *projection.Assembler, svc *ledger.Service) PendingModel {
	columns := []table.Column{
		{Title: "Competência", Width: 12},
		{Title: "Data", Width: 12},
		{Title: "Descrição", Width: 42},
		{Title: "Categoria", Width: 14},
		{Title: "Valor", Width: 16},
		{Title: "Origem", Width: 11},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(report.ColorBorder).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return PendingModel{
		assembler: asm,
		ledger:    svc,
		table:     t,
		loading:   true,
	}
}

func (m PendingModel) Title() string { return "Pending" }

func (m PendingModel) ShortHelp() string {
	if m.state != pendingStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | f: filter | p: mark paid | m: move month | k: skip | r: refresh"
}

func (m PendingModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPendingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case mutationMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		return m, m.loadCmd()

	case DataChangedMsg:
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(5, msg.Height-10))

		return m, nil
	}

	switch m.state {
	case pendingStateBrowse:
		return m.updateBrowse(msg)
	case pendingStateFilter, pendingStateMove:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m PendingModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			return m.enterFilterMode()
		case "m":
			return m.enterMoveMode()
		case "p":
			return m.markPaid()
		case "k":
			tx := m.selected()
			if tx == nil {
				return m, nil
			}

			return m, skipCmd(m.ledger, tx, competence.Of(tx))
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m PendingModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m PendingModel) markPaid() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	if tx.IsVirtual {
		m.status = "Projected entries can't be marked paid; record the payment instead."
		return m, nil
	}

	id, desc := tx.ID, tx.Description

	return m, func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.ledger.SetStatus(ctx, id, transaction.StatusPaid); err != nil {
			return mutationMsg{err: err}
		}

		return mutationMsg{status: fmt.Sprintf("Marked %s as paid.", desc)}
	}
}

func (m PendingModel) enterFilterMode() (tea.Model, tea.Cmd) {
	m.formText = m.filter.Text
	m.formCategory = m.filter.Category
	m.formMonth = ""

	if m.filter.Month != nil {
		m.formMonth = m.filter.Month.Key()
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("text").
				Title("Description contains").
				Value(&m.formText),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&m.formCategory),

			huh.NewInput().
				Key("month").
				Title("Competence month").
				Placeholder("YYYY-MM").
				Value(&m.formMonth).
				Validate(optionalMonth),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = pendingStateFilter
	m.table.Blur()

	return m, m.form.Init()
}

func (m PendingModel) enterMoveMode() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	if tx.IsVirtual {
		m.status = "Projected entries follow their source; edit the goal or card instead."
		return m, nil
	}

	m.formMonth = competence.Of(tx).Key()

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("month").
				Title("Payment month").
				Placeholder("YYYY-MM").
				Value(&m.formMonth).
				Validate(func(s string) error {
					if _, err := calendar.ParseMonth(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = pendingStateMove
	m.table.Blur()

	return m, m.form.Init()
}

func optionalMonth(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := calendar.ParseMonth(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM")
	}

	return nil
}

func (m PendingModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == pendingStateMove {
		month, _ := calendar.ParseMonth(strings.TrimSpace(m.form.GetString("month")))
		tx := m.selected()
		m = m.closeForm()

		if tx == nil {
			return m, nil
		}

		return m, m.moveCmd(tx, month)
	}

	m.filter = projection.Filter{
		Text:     strings.TrimSpace(m.form.GetString("text")),
		Category: strings.TrimSpace(m.form.GetString("category")),
	}

	if month, err := calendar.ParseMonth(strings.TrimSpace(m.form.GetString("month"))); err == nil {
		m.filter.Month = &month
	}

	m = m.closeForm()
	m.loading = true

	return m, m.loadCmd()
}

func (m PendingModel) closeForm() PendingModel {
	m.state = pendingStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m PendingModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Projecting pending transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("[f] Filter: %s | %d pending | %s",
		activeStyle(m.filterLabel()), len(m.txs), activeStyle(transaction.FormatAmount(m.total())))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(report.ColorBorder).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.state != pendingStateBrowse && m.form != nil {
		title := "Filter"
		if m.state == pendingStateMove {
			if tx := m.selected(); tx != nil {
				title = "Move " + tx.Description
			}
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m PendingModel) filterLabel() string {
	var parts []string

	if m.filter.Text != "" {
		parts = append(parts, fmt.Sprintf("%q", m.filter.Text))
	}

	if m.filter.Category != "" {
		parts = append(parts, m.filter.Category)
	}

	if m.filter.Month != nil {
		parts = append(parts, m.filter.Month.Short())
	}

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, ", ")
}

func (m PendingModel) total() int64 {
	var sum int64
	for _, tx := range m.txs {
		sum += tx.Signed()
	}

	return sum
}

func (m *PendingModel) refreshTable() {
	rows := report.PendingRows(m.txs)

	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}

	m.table.SetRows(tableRows)
}

// Messages

type loadPendingMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m PendingModel) loadCmd() tea.Cmd {
	f := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.assembler.Assemble(ctx, f)
		if err != nil {
			return loadPendingMsg{err: err}
		}

		return loadPendingMsg{txs: res.Pending}
	}
}

func (m PendingModel) moveCmd(tx *transaction.Transaction, month calendar.Month) tea.Cmd {
	id, desc := tx.ID, tx.Description

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.ledger.SetPaymentMonth(ctx, id, month); err != nil {
			return mutationMsg{err: err}
		}

		return mutationMsg{status: fmt.Sprintf("Moved %s to %s.", desc, month.Name())}
	}
}
