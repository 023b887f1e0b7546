package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/bridge"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/ui"
	"github.com/nhle/taskboard/internal/ui/boardview"
	"github.com/nhle/taskboard/internal/ui/command"
	configview "github.com/nhle/taskboard/internal/ui/config"
	helpview "github.com/nhle/taskboard/internal/ui/help"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewHelp
	ViewCommand
	ViewConfig
)

// Model is the root Bubble Tea model that routes input between the board,
// the help overlay and the command palette, and feeds confirmed board
// events into the board view.
type Model struct {
	currentView  ViewState
	previousView ViewState
	frame        ui.Frame
	events       *bridge.Channel
	keys         *keys.KeyMap
	boardView    boardview.Model
	helpView     helpview.Model
	commandView  command.Model
	configView   configview.Model
	ready        bool
	status       string
}

// New creates the root model. events must be registered as a bridge on
// the session so the board view sees confirmed changes. Settings edits are
// saved to cfgPath.
func New(s boardview.Session, events *bridge.Channel, cfg model.AppConfig, cfgPath string) Model {
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewBoard,
		events:      events,
		keys:        k,
		boardView:   boardview.New(s, k, boardOptions(cfg), 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80),
		configView:  configview.New(cfgPath, cfg, 80, 24),
	}
}

func boardOptions(cfg model.AppConfig) boardview.Options {
	return boardview.Options{
		ShowResolution: cfg.Display.ShowResolution,
		Mouse:          cfg.Display.Mouse,
	}
}

// Init loads the board and starts listening for events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.boardView.Init(),
		m.events.Wait(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.frame = ui.NewFrame(msg.Width, msg.Height)
		m.ready = true
		w, h := m.frame.Body()
		m.boardView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetWidth(w)
		m.configView.SetSize(w, h)
		return m, nil

	case bridge.EventMsg:
		var cmd tea.Cmd
		if msg.Resync {
			cmd = m.boardView.Load()
		} else {
			cmd = m.boardView.ApplyEvent(msg.Event)
		}
		return m, tea.Batch(cmd, m.events.Wait())

	case configview.SavedMsg:
		m.currentView = ViewBoard
		m.status = "Settings saved"
		m.boardView.SetOptions(boardOptions(msg.Config))
		if msg.Config.Display.Mouse {
			return m, tea.EnableMouseCellMotion
		}
		return m, tea.DisableMouse

	case configview.DoneMsg:
		m.currentView = ViewBoard
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.MouseMsg:
		if m.currentView != ViewBoard {
			return m, nil
		}
		msg.Y -= m.frame.BodyTop()
		var cmd tea.Cmd
		m.boardView, cmd = m.boardView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.status = ""

		// The board's inline editor and confirmation own every key.
		if m.currentView == ViewBoard && m.boardView.Capturing() {
			break
		}

		if key.Matches(msg, m.keys.Back) && m.currentView != ViewBoard {
			m.currentView = ViewBoard
			return m, nil
		}

		// The settings form owns the rest of its keys.
		if m.currentView == ViewConfig {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.currentView == ViewBoard {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewCommand {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			cmd := m.commandView.Focus()
			return m, cmd

		case key.Matches(msg, m.keys.Settings):
			if m.currentView == ViewBoard {
				cmd := m.openSettings()
				return m, cmd
			}

		case key.Matches(msg, m.keys.Reload):
			if m.currentView == ViewBoard {
				return m, m.boardView.Load()
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
// Board results and loads always reach the board view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewHelp:
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, nil
		}
	case ViewCommand:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.commandView, cmd = m.commandView.Update(msg)
			return m, cmd
		}
	case ViewConfig:
		m.configView, cmd = m.configView.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		// Other messages may be board results still in flight.
		var boardCmd tea.Cmd
		m.boardView, boardCmd = m.boardView.Update(msg)
		return m, tea.Batch(cmd, boardCmd)
	}

	m.boardView, cmd = m.boardView.Update(msg)
	return m, cmd
}

// openSettings shows the settings form.
func (m *Model) openSettings() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewConfig
	return m.configView.Open()
}

// View renders the header, the active view and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.frame.Render("Task Board", m.summary(), m.renderContent(), m.keyHints())
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewConfig:
		return m.configView.View()
	default:
		return m.boardView.View()
	}
}

// summary returns the list and task counts for the header.
func (m Model) summary() string {
	b := m.boardView.Board()
	return fmt.Sprintf("%s · %s",
		plural(len(b.Lists), "list"),
		plural(b.TaskCount(), "task"),
	)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// keyHints returns the latest status message or keyboard hints.
func (m Model) keyHints() string {
	if m.status != "" {
		return m.status
	}
	if s := m.boardView.Status(); s != "" && m.currentView == ViewBoard {
		return s
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewConfig:
		return "←/→ toggle | enter next | esc back"
	default:
		if m.boardView.Capturing() {
			return "enter confirm | esc cancel"
		}
		return "q quit | ? help | N new list | n new task | x complete | J/K move | drag ⠿ to reorder"
	}
}
