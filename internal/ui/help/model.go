// Package help renders the shortcut reference.
package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/theme"
)

// gestures pairs each pointer action with what it does. They have no key
// bindings, so bubbles/help cannot list them.
var gestures = [][2]string{
	{"click a row", "focus it"},
	{"drag the ⠿ handle", "move a task or list"},
	{"release", "drop and save the new order"},
	{"click + add task", "append a task to that list"},
}

// Model is the help screen.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates the help screen for k.
func New(k *keys.KeyMap, width, height int) Model {
	m := Model{keys: k, help: help.New()}
	m.help.ShowAll = true
	m.SetSize(width, height)
	return m
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = max(width-4, 0)
}

// View renders every key binding followed by the mouse gestures.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	content := lipgloss.JoinVertical(lipgloss.Left,
		title.Render("Keyboard Shortcuts"),
		"",
		m.help.View(m.keys),
		"",
		title.Render("Mouse"),
		"",
		m.gestures(),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

func (m Model) gestures() string {
	keyStyle := m.help.Styles.FullKey
	descStyle := m.help.Styles.FullDesc

	var actions, effects []string
	for _, g := range gestures {
		actions = append(actions, keyStyle.Render(g[0]))
		effects = append(effects, descStyle.Render(g[1]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, actions...),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left, effects...),
	)
}
