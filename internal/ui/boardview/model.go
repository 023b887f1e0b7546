// Package boardview renders the board and turns keys, clicks and drags
// into session commands.
package boardview

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/bridge"
	"github.com/nhle/taskboard/internal/drag"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
)

// Session is the subset of board.Session the view drives.
type Session interface {
	Board(ctx context.Context) (model.Board, error)
	CreateList(ctx context.Context) (model.List, error)
	RenameList(ctx context.Context, id, name string) (model.List, error)
	DeleteList(ctx context.Context, id string) error
	CreateTask(ctx context.Context, listID string) (model.Task, error)
	EditDescription(ctx context.Context, id, text string) (model.Task, error)
	EditResolution(ctx context.Context, id, text string) (model.Task, error)
	SetStatus(ctx context.Context, id string, status model.Status) (model.Task, error)
	CompleteTask(ctx context.Context, id string) error
	ReorderLists(ctx context.Context, order []string) error
	ReorderTasks(ctx context.Context, listID string, order []string) error
}

// BoardLoadedMsg carries a fresh snapshot from the store.
type BoardLoadedMsg struct {
	Board model.Board
	Err   error
}

// resultMsg reports the outcome of a session command. The board itself
// changes through bridge events, not through results.
type resultMsg struct {
	op  string
	err error

	// focus names a created list or task to focus once it appears.
	focus string
}

type viewMode int

const (
	modeBrowse viewMode = iota
	modeEdit
	modeConfirmDelete
)

type editField int

const (
	editListName editField = iota
	editDescription
	editResolution
)

type formBindings struct {
	confirm bool
}

// focus identifies the focused row by id so it survives board updates.
// An empty taskID means the list header.
type focus struct {
	listID string
	taskID string
}

// Options carries display preferences.
type Options struct {
	ShowResolution bool
	Mouse          bool
}

// Model is the Bubble Tea model for the board.
type Model struct {
	session Session
	keys    *keys.KeyMap
	opts    Options

	board  model.Board
	loaded bool
	focus  focus

	// lastLine is the focused line index before the latest update, used
	// to land near a row that disappeared.
	lastLine int

	// pendingFocus is a created id to focus, and edit, once it shows up.
	pendingFocus string

	mode        viewMode
	editing     editField
	editID      string
	input       textinput.Model
	confirmForm *huh.Form
	fb          *formBindings
	deleteID    string

	drag drag.Controller

	offset int
	width  int
	height int
	status string
}

// New creates a board view.
func New(s Session, k *keys.KeyMap, opts Options, width, height int) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 500

	return Model{
		session: s,
		keys:    k,
		opts:    opts,
		input:   ti,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Init loads the board.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Board returns the board as currently displayed.
func (m Model) Board() model.Board {
	return m.board
}

// Status returns the latest status message.
func (m Model) Status() string {
	return m.status
}

// Capturing reports whether the view is consuming raw key input, so the
// parent must not treat keys like q or ? as global shortcuts.
func (m Model) Capturing() bool {
	return m.mode != modeBrowse
}

// Dragging reports whether a pointer drag is in progress.
func (m Model) Dragging() bool {
	return m.drag.State() == drag.Dragging
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 10
	m.scrollToFocus()
}

// SetOptions changes display preferences.
func (m *Model) SetOptions(opts Options) {
	m.opts = opts
	if !opts.Mouse {
		m.drag.Cancel()
	}
	m.clampOffset(len(m.lines(m.board)))
	m.scrollToFocus()
}

// SetBoard replaces the displayed board.
func (m *Model) SetBoard(b model.Board) tea.Cmd {
	m.board = b
	m.loaded = true
	return m.afterBoardChange()
}

// ApplyEvent folds a confirmed event into the displayed board.
func (m *Model) ApplyEvent(e board.Event) tea.Cmd {
	m.board = bridge.Apply(m.board, e)
	m.loaded = true
	return m.afterBoardChange()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case BoardLoadedMsg:
		if msg.Err != nil {
			m.status = "Error loading board: " + msg.Err.Error()
			return m, nil
		}
		cmd := m.SetBoard(msg.Board)
		return m, cmd

	case resultMsg:
		if msg.err != nil {
			m.status = describeError(msg.op, msg.err)
			return m, nil
		}
		m.status = ""
		if msg.focus != "" {
			m.pendingFocus = msg.focus
			cmd := m.resolvePendingFocus()
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		if !m.opts.Mouse || m.mode != modeBrowse {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.handleKey(msg)
	}

	switch m.mode {
	case modeEdit:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Dragging() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.NewList):
		return m, m.NewList()

	case key.Matches(msg, m.keys.NewTask):
		return m, m.NewTask()

	case key.Matches(msg, m.keys.Edit):
		cmd := m.startEdit(m.focusEditField())
		return m, cmd

	case key.Matches(msg, m.keys.EditResolution):
		if m.focus.taskID == "" {
			return m, nil
		}
		cmd := m.startEdit(editResolution)
		return m, cmd

	case key.Matches(msg, m.keys.CycleStatus):
		return m, m.cycleStatus()

	case key.Matches(msg, m.keys.Complete):
		return m, m.CompleteFocused()

	case key.Matches(msg, m.keys.DeleteList):
		cmd := m.ConfirmDeleteList()
		return m, cmd

	case key.Matches(msg, m.keys.MoveUp):
		return m, m.moveFocused(-1)

	case key.Matches(msg, m.keys.MoveDown):
		return m, m.moveFocused(1)
	}
	return m, nil
}

func (m Model) focusEditField() editField {
	if m.focus.taskID == "" {
		return editListName
	}
	return editDescription
}

// startEdit opens the inline editor on the focused row.
func (m *Model) startEdit(field editField) tea.Cmd {
	lv, task, ok := m.focused()
	if !ok {
		return nil
	}

	m.editing = field
	switch field {
	case editListName:
		m.editID = lv.List.ID
		m.input.Placeholder = model.DefaultListName
		m.input.SetValue(lv.List.Name)
	case editDescription:
		if task == nil {
			return nil
		}
		m.editID = task.ID
		m.input.Placeholder = "describe the task"
		m.input.SetValue(task.Description)
	case editResolution:
		if task == nil {
			return nil
		}
		m.editID = task.ID
		m.input.Placeholder = "how was it resolved?"
		m.input.SetValue(task.Resolution)
	}
	m.input.CursorEnd()
	m.mode = modeEdit
	return m.input.Focus()
}

func (m Model) updateEdit(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.input.Value()
		m.mode = modeBrowse
		m.input.Blur()
		return m, m.commitEdit(m.editing, m.editID, value)
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ConfirmDeleteList asks before deleting the focused list.
func (m *Model) ConfirmDeleteList() tea.Cmd {
	lv, _, ok := m.focused()
	if !ok {
		return nil
	}
	m.deleteID = lv.List.ID
	m.fb.confirm = false
	m.confirmForm = m.buildConfirmForm(lv)
	m.mode = modeConfirmDelete
	return m.confirmForm.Init()
}

func (m Model) buildConfirmForm(lv model.ListView) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete list " + quoteName(lv.List.Name) + "?").
				Description(taskCountLabel(len(lv.Tasks)) + " will be deleted with it.").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.mode = modeBrowse
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		m.mode = modeBrowse
		if m.fb.confirm {
			return m, m.deleteList(m.deleteID)
		}
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeBrowse
		return m, nil
	}
	return m, cmd
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	if w > 80 {
		w = 80
	}
	return w
}

// focused returns the focused list and, on a task row, the task.
func (m Model) focused() (model.ListView, *model.Task, bool) {
	lv, ok := m.board.List(m.focus.listID)
	if !ok {
		return model.ListView{}, nil, false
	}
	if m.focus.taskID == "" {
		return lv, nil, true
	}
	for i := range lv.Tasks {
		if lv.Tasks[i].ID == m.focus.taskID {
			return lv, &lv.Tasks[i], true
		}
	}
	return lv, nil, true
}

// afterBoardChange re-resolves focus, pending focus and scroll.
func (m *Model) afterBoardChange() tea.Cmd {
	lines := m.lines(m.board)
	if idx := m.focusLine(lines); idx >= 0 {
		m.lastLine = idx
	} else {
		m.focusNearest(lines, m.lastLine)
	}

	var cmd tea.Cmd
	if m.pendingFocus != "" && m.mode == modeBrowse {
		cmd = m.resolvePendingFocus()
	}
	m.scrollToFocus()
	return cmd
}

// resolvePendingFocus focuses a newly created row once it is on the board
// and opens the editor on it, mirroring a freshly added editable element.
func (m *Model) resolvePendingFocus() tea.Cmd {
	id := m.pendingFocus
	for _, lv := range m.board.Lists {
		if lv.List.ID == id {
			m.pendingFocus = ""
			m.focus = focus{listID: id}
			m.scrollToFocus()
			return m.startEdit(editListName)
		}
		for _, t := range lv.Tasks {
			if t.ID == id {
				m.pendingFocus = ""
				m.focus = focus{listID: lv.List.ID, taskID: id}
				m.scrollToFocus()
				return m.startEdit(editDescription)
			}
		}
	}
	return nil
}
