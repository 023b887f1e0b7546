// Package config is the settings form for display preferences.
package config

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// SavedMsg is emitted after the settings were written to disk.
type SavedMsg struct {
	Config model.AppConfig
}

// DoneMsg signals the settings view should close without saving.
type DoneMsg struct{}

// savedInternalMsg is sent after the config file write finishes.
type savedInternalMsg struct {
	cfg model.AppConfig
	err error
}

// formValues is held by pointer so huh's bindings survive model copies.
type formValues struct {
	showResolution bool
	mouse          bool
}

// Model is the Bubble Tea model for the settings form.
type Model struct {
	path   string
	cfg    model.AppConfig
	form   *huh.Form
	vals   *formValues
	saving bool
	status string
	width  int
	height int
}

// New creates a settings view that edits cfg and saves it to path.
func New(path string, cfg model.AppConfig, width, height int) Model {
	return Model{
		path:   path,
		cfg:    cfg,
		vals:   &formValues{},
		width:  width,
		height: height,
	}
}

// Config returns the configuration as last saved.
func (m Model) Config() model.AppConfig {
	return m.cfg
}

// Open resets the form to the current configuration.
func (m *Model) Open() tea.Cmd {
	m.status = ""
	m.saving = false
	m.vals.showResolution = m.cfg.Display.ShowResolution
	m.vals.mouse = m.cfg.Display.Mouse
	m.form = m.buildForm()
	return m.form.Init()
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show resolution notes").
				Description("Render each task's resolution under it.").
				Affirmative("On").
				Negative("Off").
				Value(&m.vals.showResolution),
			huh.NewConfirm().
				Title("Mouse drag and drop").
				Description("Capture the mouse so tasks and lists can be dragged.").
				Affirmative("On").
				Negative("Off").
				Value(&m.vals.mouse),
		),
	).WithWidth(m.formWidth())
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case savedInternalMsg:
		m.saving = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving settings: %v", msg.err)
			cmd := m.Open()
			return m, cmd
		}
		m.cfg = msg.cfg
		return m, func() tea.Msg { return SavedMsg{Config: msg.cfg} }
	}

	if m.form == nil || m.saving {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.saving = true
		return m, m.save()
	case huh.StateAborted:
		return m, func() tea.Msg { return DoneMsg{} }
	}
	return m, cmd
}

// save writes the form values to the config file.
func (m Model) save() tea.Cmd {
	cfg := m.cfg
	cfg.Display.ShowResolution = m.vals.showResolution
	cfg.Display.Mouse = m.vals.mouse
	path := m.path

	return func() tea.Msg {
		err := model.SaveConfig(path, &cfg)
		return savedInternalMsg{cfg: cfg, err: err}
	}
}

// View renders the settings form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Settings")}
	if m.form != nil {
		parts = append(parts, m.form.View())
	}
	parts = append(parts, theme.HelpStyle.Render("Saved to "+m.path))
	if m.status != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.status))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the settings view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w < 30 {
		w = 30
	}
	if w > 72 {
		w = 72
	}
	return w
}
