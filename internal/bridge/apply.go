package bridge

import (
	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
)

// Apply folds a confirmed event into b and returns the updated board. The
// input board is not modified.
func Apply(b model.Board, e board.Event) model.Board {
	if e.Kind == board.EventBoardLoaded {
		if e.Board != nil {
			return clone(*e.Board)
		}
		return clone(b)
	}

	out := clone(b)
	switch e.Kind {
	case board.EventListCreated:
		if e.List != nil {
			out.Lists = append(out.Lists, model.ListView{List: *e.List, Tasks: []model.Task{}})
		}

	case board.EventListRenamed:
		if e.List != nil {
			if i := indexOf(out, e.List.ID); i >= 0 {
				out.Lists[i].List.Name = e.List.Name
			}
		}

	case board.EventListDeleted:
		if i := indexOf(out, e.ID); i >= 0 {
			pos := out.Lists[i].List.Position
			out.Lists = append(out.Lists[:i], out.Lists[i+1:]...)
			for j := range out.Lists {
				if out.Lists[j].List.Position > pos {
					out.Lists[j].List.Position--
				}
			}
		}

	case board.EventListsReordered:
		byID := make(map[string]model.ListView, len(out.Lists))
		for _, lv := range out.Lists {
			byID[lv.List.ID] = lv
		}
		lists := make([]model.ListView, 0, len(e.Order))
		for i, id := range e.Order {
			lv, ok := byID[id]
			if !ok {
				continue
			}
			lv.List.Position = i
			lists = append(lists, lv)
		}
		out.Lists = lists

	case board.EventTaskCreated:
		if e.Task != nil {
			if i := indexOf(out, e.Task.ListID); i >= 0 {
				out.Lists[i].Tasks = append(out.Lists[i].Tasks, *e.Task)
				model.SortTasks(out.Lists[i].Tasks)
			}
		}

	case board.EventTaskEdited, board.EventTaskStatusChanged:
		if e.Task != nil {
			if i := indexOf(out, e.Task.ListID); i >= 0 {
				for j, t := range out.Lists[i].Tasks {
					if t.ID == e.Task.ID {
						out.Lists[i].Tasks[j] = *e.Task
					}
				}
			}
		}

	case board.EventTaskCompleted:
		if i := indexOf(out, e.ListID); i >= 0 {
			tasks := out.Lists[i].Tasks[:0]
			for _, t := range out.Lists[i].Tasks {
				if t.ID != e.ID {
					tasks = append(tasks, t)
				}
			}
			out.Lists[i].Tasks = tasks
		}

	case board.EventTasksReordered:
		if i := indexOf(out, e.ListID); i >= 0 {
			byID := make(map[string]model.Task, len(out.Lists[i].Tasks))
			for _, t := range out.Lists[i].Tasks {
				byID[t.ID] = t
			}
			tasks := make([]model.Task, 0, len(e.Order))
			for pos, id := range e.Order {
				t, ok := byID[id]
				if !ok {
					continue
				}
				t.Position = pos
				tasks = append(tasks, t)
			}
			out.Lists[i].Tasks = tasks
		}
	}
	return out
}

func indexOf(b model.Board, listID string) int {
	for i, lv := range b.Lists {
		if lv.List.ID == listID {
			return i
		}
	}
	return -1
}

func clone(b model.Board) model.Board {
	out := model.Board{Lists: make([]model.ListView, len(b.Lists))}
	for i, lv := range b.Lists {
		tasks := make([]model.Task, len(lv.Tasks))
		copy(tasks, lv.Tasks)
		out.Lists[i] = model.ListView{List: lv.List, Tasks: tasks}
	}
	return out
}
