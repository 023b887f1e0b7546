package app

import tea "github.com/charmbracelet/bubbletea"

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "new list", "list":
		return m.boardView.NewList()
	case "new task", "task":
		return m.boardView.NewTask()
	case "delete list":
		return m.boardView.ConfirmDeleteList()
	case "complete", "done":
		return m.boardView.CompleteFocused()
	case "reload", "refresh":
		return m.boardView.Load()
	case "settings", "config":
		return m.openSettings()
	case "help":
		m.previousView = ViewBoard
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		return tea.Quit
	default:
		m.status = "Unknown command: " + cmd
		return nil
	}
}
