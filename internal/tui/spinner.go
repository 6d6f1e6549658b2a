package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmo/mmopack/internal/ui"
)

// workDoneMsg signals that the wrapped work returned.
type workDoneMsg struct {
	err error
}

// spinnerModel shows a spinner next to message until a workDoneMsg arrives.
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

func newSpinnerModel(message string) spinnerModel {
	return spinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(ui.ColorPrimary)),
		),
		message: message,
	}
}

// Init implements tea.Model.
func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return ui.ErrorStyle.Render(ui.SymbolCross+" "+m.message) + "\n"
		}
		return ui.SuccessStyle.Render(ui.SymbolCheck+" "+m.message) + "\n"
	}
	return m.spinner.View() + " " + m.message
}
