package boardview

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/ident"
	"github.com/nhle/taskboard/internal/model"
)

// Load returns a tea.Cmd that reads the whole board from the session.
func (m Model) Load() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		b, err := s.Board(context.Background())
		return BoardLoadedMsg{Board: b, Err: err}
	}
}

// NewList creates a list at the end of the board.
func (m Model) NewList() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		l, err := s.CreateList(context.Background())
		return resultMsg{op: "create list", err: err, focus: l.ID}
	}
}

// NewTask adds a task to the focused list.
func (m Model) NewTask() tea.Cmd {
	lv, _, ok := m.focused()
	if !ok {
		return nil
	}
	return m.createTask(lv.List.ID)
}

func (m Model) createTask(listID string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		t, err := s.CreateTask(context.Background(), listID)
		return resultMsg{op: "create task", err: err, focus: t.ID}
	}
}

// CompleteFocused completes the focused task.
func (m Model) CompleteFocused() tea.Cmd {
	_, task, ok := m.focused()
	if !ok || task == nil {
		return nil
	}
	s := m.session
	id := task.ID
	return func() tea.Msg {
		err := s.CompleteTask(context.Background(), id)
		return resultMsg{op: "complete task", err: err}
	}
}

func (m Model) deleteList(id string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		err := s.DeleteList(context.Background(), id)
		return resultMsg{op: "delete list", err: err}
	}
}

func (m Model) commitEdit(field editField, id, value string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch field {
		case editListName:
			_, err = s.RenameList(ctx, id, value)
		case editDescription:
			_, err = s.EditDescription(ctx, id, value)
		case editResolution:
			_, err = s.EditResolution(ctx, id, value)
		}
		return resultMsg{op: "save", err: err}
	}
}

func (m Model) cycleStatus() tea.Cmd {
	_, task, ok := m.focused()
	if !ok || task == nil {
		return nil
	}
	s := m.session
	id := task.ID
	next := nextStatus(task.Status)
	return func() tea.Msg {
		_, err := s.SetStatus(context.Background(), id, next)
		return resultMsg{op: "set status", err: err}
	}
}

// nextStatus cycles normal, high, hold.
func nextStatus(st model.Status) model.Status {
	switch st {
	case model.StatusNormal:
		return model.StatusHigh
	case model.StatusHigh:
		return model.StatusHold
	default:
		return model.StatusNormal
	}
}

func (m Model) reorderLists(order []string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		err := s.ReorderLists(context.Background(), order)
		return resultMsg{op: "reorder lists", err: err}
	}
}

func (m Model) reorderTasks(listID string, order []string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		err := s.ReorderTasks(context.Background(), listID, order)
		return resultMsg{op: "reorder tasks", err: err}
	}
}

func describeError(op string, err error) string {
	if errors.Is(err, ident.ErrExhausted) {
		return fmt.Sprintf("Cannot %s: all %d identifiers are in use", op, ident.Capacity)
	}
	return fmt.Sprintf("Error: %s: %v", op, err)
}
