package model

import "sort"

// ListView is a list together with its tasks in display order.
type ListView struct {
	List  List   `json:"list"`
	Tasks []Task `json:"tasks"`
}

// Board is a read-only snapshot of every list and task in display order.
type Board struct {
	Lists []ListView `json:"lists"`
}

// NewBoard groups tasks under their lists and sorts both by position.
// Tasks whose list is missing are dropped.
func NewBoard(lists []List, tasks []Task) Board {
	sorted := make([]List, len(lists))
	copy(sorted, lists)
	SortLists(sorted)

	byList := make(map[string][]Task, len(sorted))
	for _, t := range tasks {
		byList[t.ListID] = append(byList[t.ListID], t)
	}

	b := Board{Lists: make([]ListView, 0, len(sorted))}
	for _, l := range sorted {
		ts := byList[l.ID]
		SortTasks(ts)
		if ts == nil {
			ts = []Task{}
		}
		b.Lists = append(b.Lists, ListView{List: l, Tasks: ts})
	}
	return b
}

// SortLists orders lists by position, breaking ties by ID.
func SortLists(lists []List) {
	sort.SliceStable(lists, func(i, j int) bool {
		if lists[i].Position != lists[j].Position {
			return lists[i].Position < lists[j].Position
		}
		return lists[i].ID < lists[j].ID
	})
}

// SortTasks orders tasks by position, breaking ties by ID.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// List returns the list view with the given ID.
func (b Board) List(id string) (ListView, bool) {
	for _, lv := range b.Lists {
		if lv.List.ID == id {
			return lv, true
		}
	}
	return ListView{}, false
}

// TaskCount returns the total number of tasks across all lists.
func (b Board) TaskCount() int {
	n := 0
	for _, lv := range b.Lists {
		n += len(lv.Tasks)
	}
	return n
}
