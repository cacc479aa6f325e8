// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive terminal components plugpack uses.
// The only suspension point in the bundle pipeline is the yes/no
// confirmation shown before creating a missing output directory.
package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user aborts a prompt (esc/ctrl+c).
var ErrCancelled = errors.New("cancelled by user")

// ConfirmOptions configures the Confirm prompt.
type ConfirmOptions struct {
	// Title is the question to display.
	Title string
	// Affirmative is the text for the yes option (default: "Yes").
	Affirmative string
	// Negative is the text for the no option (default: "No").
	Negative string
	// Default is the preselected answer.
	Default bool
}

// confirmModel renders a two-option yes/no prompt.
type confirmModel struct {
	opts      ConfirmOptions
	selection bool
	done      bool
	cancelled bool
	width     int
}

var (
	confirmTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	confirmActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7C3AED")).Bold(true).Padding(0, 1)
	confirmInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Padding(0, 1)
	confirmHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func newConfirmModel(opts ConfirmOptions) *confirmModel {
	if opts.Affirmative == "" {
		opts.Affirmative = "Yes"
	}
	if opts.Negative == "" {
		opts.Negative = "No"
	}
	return &confirmModel{
		opts:      opts,
		selection: opts.Default,
	}
}

// Init implements tea.Model.
func (m *confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case "y":
			m.selection = true
			m.done = true
			return m, tea.Quit
		case "n":
			m.selection = false
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.selection = true
		case "right", "l":
			m.selection = false
		case "up", "down", "tab", "shift+tab":
			m.selection = !m.selection
		case "enter", " ":
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	return m, nil
}

// View implements tea.Model.
func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	yesView := confirmInactiveStyle.Render(m.opts.Affirmative)
	noView := confirmInactiveStyle.Render(m.opts.Negative)
	if m.selection {
		yesView = confirmActiveStyle.Render(m.opts.Affirmative)
	} else {
		noView = confirmActiveStyle.Render(m.opts.Negative)
	}

	lines := make([]string, 0, 3)
	if m.opts.Title != "" {
		lines = append(lines, confirmTitleStyle.Render(m.opts.Title))
	}
	lines = append(lines,
		yesView+"  "+noView,
		confirmHelpStyle.Render("enter submit • y yes • n no • esc cancel"),
	)

	view := strings.Join(lines, "\n")
	if m.width > 0 {
		view = lipgloss.NewStyle().MaxWidth(m.width).Render(view)
	}
	return view
}

// Confirm prompts the user for a yes/no answer. Returns ErrCancelled when
// the prompt is aborted instead of answered.
func Confirm(opts ConfirmOptions) (bool, error) {
	model := newConfirmModel(opts)
	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(*confirmModel)
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.selection, nil
}
