package board

import "github.com/nhle/taskboard/internal/model"

// EventKind names a confirmed change to the board.
type EventKind string

const (
	EventBoardLoaded       EventKind = "board.loaded"
	EventListCreated       EventKind = "list.created"
	EventListRenamed       EventKind = "list.renamed"
	EventListDeleted       EventKind = "list.deleted"
	EventListsReordered    EventKind = "lists.reordered"
	EventTaskCreated       EventKind = "task.created"
	EventTaskEdited        EventKind = "task.edited"
	EventTaskStatusChanged EventKind = "task.status"
	EventTaskCompleted     EventKind = "task.completed"
	EventTasksReordered    EventKind = "tasks.reordered"
)

// Event describes a change after the store has confirmed it. Only the
// fields relevant to Kind are set.
type Event struct {
	Kind EventKind `json:"kind"`

	// Session identifies the session that produced the event.
	Session string `json:"session"`

	Board *model.Board `json:"board,omitempty"`
	List  *model.List  `json:"list,omitempty"`
	Task  *model.Task  `json:"task,omitempty"`

	// ID is the removed list or task for delete and complete events.
	ID string `json:"id,omitempty"`

	// ListID scopes task events.
	ListID string `json:"list_id,omitempty"`

	// Removed holds the task ids deleted along with a list.
	Removed []string `json:"removed,omitempty"`

	// Order is the new sibling order for reorder events.
	Order []string `json:"order,omitempty"`
}

// Bridge reflects confirmed board changes somewhere visible. Publish is
// called with the session lock held and must not block or call back into
// the session.
type Bridge interface {
	Publish(Event)
}

// BridgeFunc adapts a function to the Bridge interface.
type BridgeFunc func(Event)

// Publish calls f(e).
func (f BridgeFunc) Publish(e Event) { f(e) }
