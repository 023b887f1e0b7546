package boardview

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/ident"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/testutil"
)

func newTestView(t *testing.T) (Model, *board.Session) {
	t.Helper()

	s := board.New(testutil.NewTestStore(t))
	t.Cleanup(func() { s.Close() })
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	m := New(s, keys.DefaultKeyMap(), Options{Mouse: true}, 80, 20)
	return m, s
}

// reload feeds a fresh snapshot into the view.
func reload(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.Load()()
	m, _ = m.Update(msg)
	return m
}

// run executes cmd and feeds its message back into the view.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	return m
}

func seed(t *testing.T, s *board.Session, tasks int) (model.List, []model.Task) {
	t.Helper()
	ctx := context.Background()

	l, err := s.CreateList(ctx)
	require.NoError(t, err)
	var out []model.Task
	for i := 0; i < tasks; i++ {
		task, err := s.CreateTask(ctx, l.ID)
		require.NoError(t, err)
		task, err = s.EditDescription(ctx, task.ID, string(rune('a'+i)))
		require.NoError(t, err)
		out = append(out, task)
	}
	return l, out
}

func taskOrder(t *testing.T, s *board.Session, listID string) []string {
	t.Helper()
	b, err := s.Board(context.Background())
	require.NoError(t, err)
	lv, ok := b.List(listID)
	require.True(t, ok)
	var ids []string
	for _, task := range lv.Tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestViewRendersLoadedBoard(t *testing.T) {
	m, s := newTestView(t)
	assert.Contains(t, m.View(), "Loading")

	l, _ := seed(t, s, 2)
	_, err := s.RenameList(context.Background(), l.ID, "Chores")
	require.NoError(t, err)

	m = reload(t, m)
	view := m.View()
	assert.Contains(t, view, "Chores")
	assert.Contains(t, view, "2 tasks")
	assert.Contains(t, view, "+ add task")
}

func TestEmptyBoardHint(t *testing.T) {
	m, _ := newTestView(t)
	m = reload(t, m)
	assert.Contains(t, m.View(), "No lists yet")
}

func TestLayoutLines(t *testing.T) {
	b := model.NewBoard(
		[]model.List{{ID: "A1", Position: 0}, {ID: "B1", Position: 1}},
		[]model.Task{
			{ID: "T1", ListID: "A1", Position: 0, Resolution: "done"},
			{ID: "T2", ListID: "A1", Position: 1},
		},
	)

	lines := buildLines(b, true, "")
	kinds := make([]lineKind, len(lines))
	for i, l := range lines {
		kinds[i] = l.kind
	}
	assert.Equal(t, []lineKind{
		lineList, lineTask, lineNote, lineTask, lineAdd, lineGap,
		lineList, lineAdd, lineGap,
	}, kinds)

	c := tasksContainer(b, lines, 0)
	assert.Equal(t, 1, c.Top)
	assert.Equal(t, 2, c.Items[0].Height)
	assert.Equal(t, 1, c.Items[1].Height)

	lc := listsContainer(b, lines)
	assert.Equal(t, 6, lc.Items[0].Height)
	assert.Equal(t, 3, lc.Items[1].Height)
}

func TestMouseDragReordersTasks(t *testing.T) {
	m, s := newTestView(t)
	l, tasks := seed(t, s, 3)
	m = reload(t, m)

	// Line 0 is the header; tasks sit on lines 1..3.
	m, _ = m.Update(mouse(tea.MouseActionPress, 2, 3))
	m, _ = m.Update(mouse(tea.MouseActionMotion, 2, 2))
	assert.True(t, m.Dragging())
	m, _ = m.Update(mouse(tea.MouseActionMotion, 2, 1))

	m, cmd := m.Update(mouse(tea.MouseActionRelease, 2, 1))
	assert.False(t, m.Dragging())
	m = run(t, m, cmd)
	assert.Empty(t, m.Status())

	assert.Equal(t, []string{tasks[2].ID, tasks[0].ID, tasks[1].ID}, taskOrder(t, s, l.ID))
}

func TestClickWithoutDragOnlyFocuses(t *testing.T) {
	m, s := newTestView(t)
	_, tasks := seed(t, s, 3)
	m = reload(t, m)

	m, _ = m.Update(mouse(tea.MouseActionPress, 30, 2))
	m, cmd := m.Update(mouse(tea.MouseActionRelease, 30, 2))
	assert.Nil(t, cmd)
	assert.Equal(t, tasks[1].ID, m.focus.taskID)
}

func TestClickAddRowCreatesTask(t *testing.T) {
	m, s := newTestView(t)
	l, _ := seed(t, s, 1)
	m = reload(t, m)

	// header, one task, then the add row.
	m, cmd := m.Update(mouse(tea.MouseActionPress, 8, 2))
	m = run(t, m, cmd)
	m = reload(t, m)

	assert.Len(t, taskOrder(t, s, l.ID), 2)
	assert.True(t, m.Capturing(), "new task opens the editor")
}

func TestKeyboardMoveAndEdit(t *testing.T) {
	m, s := newTestView(t)
	l, tasks := seed(t, s, 2)
	m = reload(t, m)

	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, tasks[0].ID, m.focus.taskID)

	m, cmd := m.Update(keyMsg("J"))
	m = run(t, m, cmd)
	assert.Equal(t, []string{tasks[1].ID, tasks[0].ID}, taskOrder(t, s, l.ID))

	m = reload(t, m)
	assert.Equal(t, tasks[0].ID, m.focus.taskID, "focus follows the moved task")

	m, _ = m.Update(keyMsg("e"))
	require.True(t, m.Capturing())
	m.input.SetValue("rewritten")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Capturing())
	m = run(t, m, cmd)

	b, err := s.Board(context.Background())
	require.NoError(t, err)
	lv, _ := b.List(l.ID)
	assert.Equal(t, "rewritten", lv.Tasks[1].Description)
}

func TestCycleStatusAndComplete(t *testing.T) {
	m, s := newTestView(t)
	l, _ := seed(t, s, 1)
	m = reload(t, m)
	m, _ = m.Update(keyMsg("j"))

	m, cmd := m.Update(keyMsg("s"))
	m = run(t, m, cmd)
	m = reload(t, m)
	lv, _ := m.Board().List(l.ID)
	assert.Equal(t, model.StatusHigh, lv.Tasks[0].Status)

	m, cmd = m.Update(keyMsg("x"))
	m = run(t, m, cmd)
	assert.Empty(t, taskOrder(t, s, l.ID))
}

func TestConfirmDeleteListShowsForm(t *testing.T) {
	m, s := newTestView(t)
	l, _ := seed(t, s, 2)
	m = reload(t, m)

	m, _ = m.Update(keyMsg("D"))
	assert.True(t, m.Capturing())
	assert.Contains(t, m.View(), "Delete list")

	m = run(t, m, m.deleteList(l.ID))
	b, err := s.Board(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b.Lists)
}

func TestExhaustedStatusMessage(t *testing.T) {
	m, _ := newTestView(t)
	m, _ = m.Update(resultMsg{op: "create task", err: fmt.Errorf("create task: %w", ident.ErrExhausted)})
	assert.Contains(t, m.Status(), "all 260 identifiers are in use")
}

func TestApplyEventFocusesCreatedList(t *testing.T) {
	m, s := newTestView(t)
	m = reload(t, m)

	cmd := m.NewList()
	msg := cmd().(resultMsg)
	m, _ = m.Update(msg)

	// The create result arrived before its event; focus waits for it.
	assert.False(t, m.Capturing())

	l, err := s.Board(context.Background())
	require.NoError(t, err)
	m.ApplyEvent(board.Event{Kind: board.EventListCreated, List: &l.Lists[0].List})
	assert.True(t, m.Capturing())
	assert.Equal(t, l.Lists[0].List.ID, m.focus.listID)
}

func TestSwapStep(t *testing.T) {
	order := []string{"A1", "B2", "C3"}
	assert.True(t, swapStep(order, "B2", -1))
	assert.Equal(t, []string{"B2", "A1", "C3"}, order)
	assert.False(t, swapStep(order, "B2", -1))
	assert.False(t, swapStep(order, "Z9", 1))
}

func TestNextStatusCycles(t *testing.T) {
	assert.Equal(t, model.StatusHigh, nextStatus(model.StatusNormal))
	assert.Equal(t, model.StatusHold, nextStatus(model.StatusHigh))
	assert.Equal(t, model.StatusNormal, nextStatus(model.StatusHold))
}
