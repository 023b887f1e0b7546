// Package command implements the ":" command palette.
package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/theme"
)

// CommandMsg carries the normalized command the user entered.
type CommandMsg string

// Names lists the commands the palette suggests.
var Names = []string{
	"new list",
	"new task",
	"delete list",
	"complete",
	"reload",
	"settings",
	"help",
	"quit",
}

// Model is the command palette.
type Model struct {
	input textinput.Model
	width int
}

// New creates a palette sized to width.
func New(width int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command, tab completes"
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Names)

	m := Model{input: ti}
	m.SetWidth(width)
	return m
}

// SetWidth resizes the palette.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.input.Width = max(width-6, 1)
}

// Focus clears the input and gives it the cursor.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}

// Normalize lowercases s and collapses runs of spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Update handles key input. Enter emits a CommandMsg unless the input is
// blank.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEnter {
		name := Normalize(m.input.Value())
		m.input.Reset()
		if name == "" {
			return m, nil
		}
		return m, func() tea.Msg { return CommandMsg(name) }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Matches returns the commands starting with what has been typed so far.
func (m Model) Matches() []string {
	typed := Normalize(m.input.Value())
	var out []string
	for _, n := range Names {
		if strings.HasPrefix(n, typed) {
			out = append(out, n)
		}
	}
	return out
}

// View renders the input and the commands still matching it.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Command Palette")

	hint := "no matching command"
	if matches := m.Matches(); len(matches) > 0 {
		hint = strings.Join(matches, " · ")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.input.View(),
		"",
		theme.HelpStyle.Render(hint),
	)
	return theme.PanelStyle.Width(max(m.width-4, 0)).Render(content)
}
