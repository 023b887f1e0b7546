package boardview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/drag"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

const (
	handle = "⠿"

	// handleWidth is how many leading columns of a row count as its drag
	// handle.
	handleWidth = 6
)

type lineKind int

const (
	lineList lineKind = iota
	lineTask
	lineNote
	lineAdd
	lineGap
)

// line is one rendered terminal row. task is -1 outside task rows.
type line struct {
	kind lineKind
	list int
	task int
}

func (l line) focusable() bool {
	return l.kind == lineList || l.kind == lineTask
}

// lines lays out b with the current display options.
func (m Model) lines(b model.Board) []line {
	noteFor := ""
	if m.mode == modeEdit && m.editing == editResolution {
		noteFor = m.editID
	}
	return buildLines(b, m.opts.ShowResolution, noteFor)
}

// buildLines lays the board out top to bottom: each list is a header,
// its tasks (with an optional resolution line), an add row and a gap.
// noteFor forces a resolution line for one task, as while editing it.
func buildLines(b model.Board, showResolution bool, noteFor string) []line {
	var lines []line
	for li, lv := range b.Lists {
		lines = append(lines, line{kind: lineList, list: li, task: -1})
		for ti, t := range lv.Tasks {
			lines = append(lines, line{kind: lineTask, list: li, task: ti})
			if (showResolution && t.Resolution != "") || t.ID == noteFor {
				lines = append(lines, line{kind: lineNote, list: li, task: ti})
			}
		}
		lines = append(lines, line{kind: lineAdd, list: li, task: -1})
		lines = append(lines, line{kind: lineGap, list: li, task: -1})
	}
	return lines
}

// focusLine returns the line index of the focused row, or -1.
func (m Model) focusLine(lines []line) int {
	for i, l := range lines {
		if !l.focusable() {
			continue
		}
		lv := m.board.Lists[l.list]
		if lv.List.ID != m.focus.listID {
			continue
		}
		if l.kind == lineList && m.focus.taskID == "" {
			return i
		}
		if l.kind == lineTask && lv.Tasks[l.task].ID == m.focus.taskID {
			return i
		}
	}
	return -1
}

// focusNearest focuses the first focusable line at or above idx, else the
// first below it.
func (m *Model) focusNearest(lines []line, idx int) {
	if len(lines) == 0 {
		m.focus = focus{}
		return
	}
	if idx >= len(lines) {
		idx = len(lines) - 1
	}
	for i := idx; i >= 0; i-- {
		if lines[i].focusable() {
			m.setFocusLine(lines, i)
			return
		}
	}
	for i := idx + 1; i < len(lines); i++ {
		if lines[i].focusable() {
			m.setFocusLine(lines, i)
			return
		}
	}
}

func (m *Model) setFocusLine(lines []line, i int) {
	l := lines[i]
	lv := m.board.Lists[l.list]
	m.focus = focus{listID: lv.List.ID}
	if l.kind == lineTask {
		m.focus.taskID = lv.Tasks[l.task].ID
	}
	m.lastLine = i
}

// moveFocus steps to the next focusable line in direction dir.
func (m *Model) moveFocus(dir int) {
	lines := m.lines(m.board)
	cur := m.focusLine(lines)
	if cur < 0 {
		m.focusNearest(lines, 0)
		m.scrollToFocus()
		return
	}
	for i := cur + dir; i >= 0 && i < len(lines); i += dir {
		if lines[i].focusable() {
			m.setFocusLine(lines, i)
			break
		}
	}
	m.scrollToFocus()
}

// scrollToFocus adjusts the scroll offset so the focused line is visible.
func (m *Model) scrollToFocus() {
	if m.height <= 0 {
		return
	}
	lines := m.lines(m.board)
	idx := m.focusLine(lines)
	if idx < 0 {
		idx = 0
	}
	if idx < m.offset {
		m.offset = idx
	}
	if idx >= m.offset+m.height {
		m.offset = idx - m.height + 1
	}
	m.clampOffset(len(lines))
}

func (m *Model) clampOffset(total int) {
	maxOffset := total - m.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// displayBoard is the board as drawn: during a drag the dragged sibling
// set follows the controller's live order.
func (m Model) displayBoard() model.Board {
	if m.drag.State() != drag.Dragging {
		return m.board
	}
	c := m.drag.Container()
	order := m.drag.Order()

	out := model.Board{Lists: make([]model.ListView, len(m.board.Lists))}
	copy(out.Lists, m.board.Lists)

	switch c.Kind {
	case drag.Lists:
		byID := make(map[string]model.ListView, len(out.Lists))
		for _, lv := range out.Lists {
			byID[lv.List.ID] = lv
		}
		lists := make([]model.ListView, 0, len(order))
		for _, id := range order {
			if lv, ok := byID[id]; ok {
				lists = append(lists, lv)
			}
		}
		out.Lists = lists

	case drag.Tasks:
		for i, lv := range out.Lists {
			if lv.List.ID != c.ListID {
				continue
			}
			byID := make(map[string]model.Task, len(lv.Tasks))
			for _, t := range lv.Tasks {
				byID[t.ID] = t
			}
			tasks := make([]model.Task, 0, len(order))
			for _, id := range order {
				if t, ok := byID[id]; ok {
					tasks = append(tasks, t)
				}
			}
			out.Lists[i].Tasks = tasks
		}
	}
	return out
}

// View renders the visible window of the board.
func (m Model) View() string {
	if !m.loaded {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading board...")
	}

	if m.mode == modeConfirmDelete && m.confirmForm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	}

	b := m.displayBoard()
	if len(b.Lists) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No lists yet.\n\nPress N to create one.")
	}

	lines := m.lines(b)
	end := m.offset + m.height
	if end > len(lines) || m.height <= 0 {
		end = len(lines)
	}
	start := m.offset
	if start > end {
		start = end
	}

	rendered := make([]string, 0, end-start)
	for _, l := range lines[start:end] {
		rendered = append(rendered, m.renderLine(b, l))
	}
	return strings.Join(rendered, "\n")
}

func (m Model) renderLine(b model.Board, l line) string {
	lv := b.Lists[l.list]
	dragged := m.drag.Dragged()

	switch l.kind {
	case lineList:
		if m.mode == modeEdit && m.editing == editListName && m.editID == lv.List.ID {
			return theme.SelectedItemStyle.Render(handle + " " + m.input.View())
		}
		name := lv.List.Name
		if name == "" {
			name = model.DefaultListName
		}
		text := fmt.Sprintf("%s %s %s",
			theme.HandleStyle.Render(handle),
			theme.ListHeaderStyle.Render(name),
			theme.DimmedStyle.Render("("+taskCountLabel(len(lv.Tasks))+")"),
		)
		switch {
		case m.Dragging() && dragged == lv.List.ID:
			return theme.DraggingStyle.Render(text)
		case m.focus.listID == lv.List.ID && m.focus.taskID == "":
			return theme.SelectedItemStyle.Render(text)
		}
		return text

	case lineTask:
		t := lv.Tasks[l.task]
		if m.mode == modeEdit && m.editID == t.ID && m.editing == editDescription {
			return theme.SelectedItemStyle.Render("  " + handle + " " + m.input.View())
		}
		desc := t.Description
		if desc == "" {
			desc = theme.DimmedStyle.Render("(empty)")
		}
		text := fmt.Sprintf("  %s %s %s",
			theme.HandleStyle.Render(handle),
			theme.StatusStyle(t.Status).Render("●"),
			desc,
		)
		switch {
		case m.Dragging() && dragged == t.ID:
			return theme.DraggingStyle.Render(text)
		case m.focus.taskID == t.ID:
			return theme.SelectedItemStyle.Render(text)
		}
		return theme.ItemStyle.Render(text)

	case lineNote:
		t := lv.Tasks[l.task]
		if m.mode == modeEdit && m.editID == t.ID && m.editing == editResolution {
			return "        " + m.input.View()
		}
		return "        " + theme.DimmedStyle.Render("↳ "+t.Resolution)

	case lineAdd:
		return "      " + theme.HelpStyle.Render("+ add task")
	}
	return ""
}

func taskCountLabel(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

func quoteName(name string) string {
	if name == "" {
		name = model.DefaultListName
	}
	return fmt.Sprintf("%q", name)
}
