package board

import (
	"context"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// CreateTask appends an empty task with normal status to the list.
func (s *Session) CreateTask(ctx context.Context, listID string) (model.Task, error) {
	if err := s.lock(); err != nil {
		return model.Task{}, err
	}
	defer s.mu.Unlock()

	st := s.store
	if _, err := store.Run(ctx, s.queue, func(ctx context.Context) (*model.List, error) {
		return st.GetList(ctx, listID)
	}); err != nil {
		return model.Task{}, s.fail("create task in "+listID, err)
	}

	count, err := store.Run(ctx, s.queue, func(ctx context.Context) (int, error) {
		return st.CountTasks(ctx, listID)
	})
	if err != nil {
		return model.Task{}, s.fail("create task in "+listID, err)
	}
	maxPos, err := store.Run(ctx, s.queue, func(ctx context.Context) (int, error) {
		return st.MaxTaskPosition(ctx, listID)
	})
	if err != nil {
		return model.Task{}, s.fail("create task in "+listID, err)
	}

	id, err := s.ids.Allocate()
	if err != nil {
		return model.Task{}, s.fail("create task in "+listID, err)
	}

	task := model.Task{
		ID:       id,
		ListID:   listID,
		Status:   model.StatusNormal,
		Position: appendPosition(count, maxPos),
	}
	err = commitExec(ctx, s.queue, func(ctx context.Context) error {
		return st.InsertTask(ctx, task)
	})
	if err != nil {
		s.ids.Release(id)
		return model.Task{}, s.fail("create task in "+listID, err)
	}

	s.log.Printf("session %s: created task %s in %s at %d", s.id, id, listID, task.Position)
	s.publish(Event{Kind: EventTaskCreated, Task: &task, ListID: listID})
	return task, nil
}

// EditDescription stores new task text.
func (s *Session) EditDescription(ctx context.Context, id, text string) (model.Task, error) {
	return s.updateTask(ctx, "edit task "+id, EventTaskEdited, id, func(t *model.Task) error {
		t.Description = text
		return nil
	})
}

// EditResolution stores a new resolution note.
func (s *Session) EditResolution(ctx context.Context, id, text string) (model.Task, error) {
	return s.updateTask(ctx, "edit resolution "+id, EventTaskEdited, id, func(t *model.Task) error {
		t.Resolution = text
		return nil
	})
}

// SetStatus changes the task's status marker.
func (s *Session) SetStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	if _, err := model.ParseStatus(string(status)); err != nil {
		return model.Task{}, err
	}
	return s.updateTask(ctx, "set status "+id, EventTaskStatusChanged, id, func(t *model.Task) error {
		t.Status = status
		return nil
	})
}

// TaskChanges names the task fields to overwrite. Nil fields are kept.
type TaskChanges struct {
	Description *string
	Resolution  *string
	Status      *model.Status
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.Description == nil && c.Resolution == nil && c.Status == nil
}

// UpdateTask applies every set field in a single write, so either all of
// them are stored or none is.
func (s *Session) UpdateTask(ctx context.Context, id string, c TaskChanges) (model.Task, error) {
	if c.Status != nil {
		if _, err := model.ParseStatus(string(*c.Status)); err != nil {
			return model.Task{}, err
		}
	}

	kind := EventTaskEdited
	if c.Description == nil && c.Resolution == nil {
		kind = EventTaskStatusChanged
	}
	return s.updateTask(ctx, "update task "+id, kind, id, func(t *model.Task) error {
		if c.Description != nil {
			t.Description = *c.Description
		}
		if c.Resolution != nil {
			t.Resolution = *c.Resolution
		}
		if c.Status != nil {
			t.Status = *c.Status
		}
		return nil
	})
}

func (s *Session) updateTask(
	ctx context.Context,
	op string,
	kind EventKind,
	id string,
	fn func(*model.Task) error,
) (model.Task, error) {
	if err := s.lock(); err != nil {
		return model.Task{}, err
	}
	defer s.mu.Unlock()

	st := s.store
	task, err := commit(ctx, s.queue, func(ctx context.Context) (*model.Task, error) {
		return st.UpdateTask(ctx, id, fn)
	})
	if err != nil {
		return model.Task{}, s.fail(op, err)
	}

	s.publish(Event{Kind: kind, Task: task, ListID: task.ListID})
	return *task, nil
}

// CompleteTask deletes the task and frees its id. Remaining siblings keep
// their positions until the next reorder.
func (s *Session) CompleteTask(ctx context.Context, id string) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	st := s.store
	task, err := store.Run(ctx, s.queue, func(ctx context.Context) (*model.Task, error) {
		return st.GetTask(ctx, id)
	})
	if err != nil {
		return s.fail("complete task "+id, err)
	}

	err = commitExec(ctx, s.queue, func(ctx context.Context) error {
		return st.DeleteTask(ctx, id)
	})
	if err != nil {
		return s.fail("complete task "+id, err)
	}
	s.ids.Release(id)

	s.log.Printf("session %s: completed task %s", s.id, id)
	s.publish(Event{Kind: EventTaskCompleted, ID: id, ListID: task.ListID})
	return nil
}

// ReorderTasks writes position = index for every task of listID in order.
// The order must name each task of the list exactly once.
func (s *Session) ReorderTasks(ctx context.Context, listID string, order []string) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	st := s.store
	tasks, err := store.Run(ctx, s.queue, func(ctx context.Context) ([]model.Task, error) {
		return st.GetTasksByList(ctx, listID)
	})
	if err != nil {
		return s.fail("reorder tasks in "+listID, err)
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	if err := checkPermutation(ids, order); err != nil {
		return s.fail("reorder tasks in "+listID, err)
	}

	order = append([]string(nil), order...)
	err = commitExec(ctx, s.queue, func(ctx context.Context) error {
		return st.SetTaskPositions(ctx, listID, order)
	})
	if err != nil {
		return s.fail("reorder tasks in "+listID, err)
	}

	s.log.Printf("session %s: reordered %d tasks in %s", s.id, len(order), listID)
	s.publish(Event{Kind: EventTasksReordered, ListID: listID, Order: order})
	return nil
}
