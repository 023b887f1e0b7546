package boardview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/drag"
	"github.com/nhle/taskboard/internal/model"
)

// wheelStep is how many lines one wheel notch scrolls.
const wheelStep = 3

// handleMouse routes pointer events. Y is relative to the top of the view.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.offset -= wheelStep
		m.clampOffset(len(m.lines(m.board)))
		return m, nil
	case tea.MouseButtonWheelDown:
		m.offset += wheelStep
		m.clampOffset(len(m.lines(m.board)))
		return m, nil
	}

	y := msg.Y + m.offset
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.press(msg.X, y)

	case tea.MouseActionMotion:
		m.drag.Move(y)
		return m, nil

	case tea.MouseActionRelease:
		return m.release()
	}
	return m, nil
}

// press focuses the row under the pointer and, on a handle, arms a drag.
func (m Model) press(x, y int) (Model, tea.Cmd) {
	if m.drag.Active() {
		// A press without a release means the release was lost.
		return m.release()
	}

	lines := m.lines(m.board)
	if y < 0 || y >= len(lines) {
		return m, nil
	}
	l := lines[y]
	lv := m.board.Lists[l.list]

	switch l.kind {
	case lineAdd:
		return m, m.createTask(lv.List.ID)

	case lineList:
		m.focus = focus{listID: lv.List.ID}
		m.lastLine = y
		if x < handleWidth {
			if err := m.drag.Press(listsContainer(m.board, lines), lv.List.ID, y); err != nil {
				m.status = err.Error()
			}
		}

	case lineTask, lineNote:
		taskID := lv.Tasks[l.task].ID
		m.focus = focus{listID: lv.List.ID, taskID: taskID}
		m.lastLine = y
		if x < handleWidth {
			if err := m.drag.Press(tasksContainer(m.board, lines, l.list), taskID, y); err != nil {
				m.status = err.Error()
			}
		}
	}
	return m, nil
}

// release ends a press or drag. Only a real drag produces a reorder, and
// it always rewrites every sibling's position from the final order.
func (m Model) release() (Model, tea.Cmd) {
	drop, ok := m.drag.Release()
	if !ok {
		return m, nil
	}

	switch drop.Kind {
	case drag.Lists:
		m.focus = focus{listID: drop.Moved}
		return m, m.reorderLists(drop.Order)
	default:
		m.focus = focus{listID: drop.ListID, taskID: drop.Moved}
		return m, m.reorderTasks(drop.ListID, drop.Order)
	}
}

// listsContainer describes every list block as one draggable sibling.
func listsContainer(b model.Board, lines []line) drag.Container {
	heights := make([]int, len(b.Lists))
	for _, l := range lines {
		heights[l.list]++
	}

	c := drag.Container{Kind: drag.Lists, Top: 0}
	for i, lv := range b.Lists {
		c.Items = append(c.Items, drag.Item{ID: lv.List.ID, Height: heights[i]})
	}
	return c
}

// tasksContainer describes the tasks of list li, each with its line count.
func tasksContainer(b model.Board, lines []line, li int) drag.Container {
	lv := b.Lists[li]
	c := drag.Container{Kind: drag.Tasks, ListID: lv.List.ID, Top: -1}
	heights := make([]int, len(lv.Tasks))
	for i, l := range lines {
		if l.list != li || (l.kind != lineTask && l.kind != lineNote) {
			continue
		}
		if c.Top < 0 {
			c.Top = i
		}
		heights[l.task]++
	}

	for i, t := range lv.Tasks {
		c.Items = append(c.Items, drag.Item{ID: t.ID, Height: heights[i]})
	}
	return c
}

// moveFocused moves the focused task or list one slot, the keyboard
// counterpart of a single drag step.
func (m Model) moveFocused(dir int) tea.Cmd {
	lv, task, ok := m.focused()
	if !ok {
		return nil
	}

	if task == nil {
		order := make([]string, len(m.board.Lists))
		for i, l := range m.board.Lists {
			order[i] = l.List.ID
		}
		if !swapStep(order, lv.List.ID, dir) {
			return nil
		}
		return m.reorderLists(order)
	}

	order := make([]string, len(lv.Tasks))
	for i, t := range lv.Tasks {
		order[i] = t.ID
	}
	if !swapStep(order, task.ID, dir) {
		return nil
	}
	return m.reorderTasks(lv.List.ID, order)
}

// swapStep swaps id with its neighbour in direction dir. It reports false
// when id is missing or already at the edge.
func swapStep(order []string, id string, dir int) bool {
	for i, v := range order {
		if v != id {
			continue
		}
		j := i + dir
		if j < 0 || j >= len(order) {
			return false
		}
		order[i], order[j] = order[j], order[i]
		return true
	}
	return false
}
