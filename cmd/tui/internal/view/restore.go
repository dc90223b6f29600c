package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/previsao/internal/encoding"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/ledger/store"
)

type restoreState int

const (
	restoreStateFilePick restoreState = iota
	restoreStateRestoring
	restoreStateResult
)

// RestoreModel replaces the stored settings with a backup file picked from
// disk.
type RestoreModel struct {
	CommonModel
	ledger *ledger.Service

	state      restoreState
	filePicker filepicker.Model

	status string
	err    error
}

func NewRestoreModel(svc *ledger.Service) RestoreModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".json"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return RestoreModel{
		ledger:     svc,
		filePicker: fp,
	}
}

func (m RestoreModel) Title() string { return "Restore Backup" }

func (m RestoreModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m RestoreModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m RestoreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == restoreStateResult {
				m.state = restoreStateFilePick
				m.err = nil
				m.status = ""

				return m, nil
			}

			return m, Back
		}

	case restoreResultMsg:
		m.state = restoreStateResult
		m.err = msg.err
		m.status = msg.status

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, nil
	}

	if m.state != restoreStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = restoreStateRestoring
		m.status = fmt.Sprintf("Restoring from %s...", path)

		return m, m.restoreCmd(path)
	}

	return m, cmd
}

func (m RestoreModel) View() string {
	switch m.state {
	case restoreStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a settings backup. It replaces everything stored.\n\n%s", m.filePicker.View()),
		)
	case restoreStateRestoring:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case restoreStateResult:
		color := lipgloss.Color("46")
		if m.err != nil {
			color = lipgloss.Color("196")
		}

		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(color).Render(m.status) + "\n\n(Esc to go back)",
		)
	}

	return ""
}

type restoreResultMsg struct {
	status string
	err    error
}

func (m RestoreModel) restoreCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return restoreResultMsg{err: err}
		}
		defer f.Close()

		raw, err := encoding.ReadUTF8(f)
		if err != nil {
			return restoreResultMsg{err: err}
		}

		settings, err := store.Decode(raw)
		if err != nil {
			return restoreResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.ledger.Replace(ctx, settings); err != nil {
			return restoreResultMsg{err: err}
		}

		return restoreResultMsg{status: fmt.Sprintf("Restored %d transactions and %d goals.",
			len(settings.Transactions), len(settings.Goals))}
	}
}
