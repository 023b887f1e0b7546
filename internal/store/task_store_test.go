package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
)

func seedList(t *testing.T, s *SQLiteStore, id string, pos int) {
	t.Helper()
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: id, Name: model.DefaultListName, Position: pos}))
}

func TestInsertAndGetTask(t *testing.T) {
	s := newTestStore(t)
	seedList(t, s, "L1", 0)

	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "T1", ListID: "L1", Description: "buy milk"}))

	got, err := s.GetTask(ctx(t), "T1")
	require.NoError(t, err)
	assert.Equal(t, model.Task{
		ID:          "T1",
		ListID:      "L1",
		Description: "buy milk",
		Status:      model.StatusNormal,
	}, *got)
}

func TestInsertTaskRequiresList(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.InsertTask(ctx(t), model.Task{ID: "T1", ListID: "L9"}))
}

func TestInsertTaskRejectsUnknownStatus(t *testing.T) {
	s := newTestStore(t)
	seedList(t, s, "L1", 0)
	assert.Error(t, s.InsertTask(ctx(t), model.Task{ID: "T1", ListID: "L1", Status: "urgent"}))
}

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	seedList(t, s, "L1", 0)
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "T1", ListID: "L1"}))

	got, err := s.UpdateTask(ctx(t), "T1", func(task *model.Task) error {
		task.Resolution = "done by hand"
		task.Status = model.StatusHold
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done by hand", got.Resolution)

	stored, err := s.GetTask(ctx(t), "T1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusHold, stored.Status)
	assert.Equal(t, "done by hand", stored.Resolution)
}

func TestUpdateTaskNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateTask(ctx(t), "T1", func(*model.Task) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	seedList(t, s, "L1", 0)
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "T1", ListID: "L1"}))

	require.NoError(t, s.DeleteTask(ctx(t), "T1"))
	assert.ErrorIs(t, s.DeleteTask(ctx(t), "T1"), ErrNotFound)
}

func TestGetTasksByListAndCount(t *testing.T) {
	s := newTestStore(t)
	seedList(t, s, "L1", 0)
	seedList(t, s, "L2", 1)
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "T1", ListID: "L1", Position: 1}))
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "T2", ListID: "L1", Position: 0}))
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "T3", ListID: "L2", Position: 0}))

	tasks, err := s.GetTasksByList(ctx(t), "L1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "T2", tasks[0].ID)
	assert.Equal(t, "T1", tasks[1].ID)

	n, err := s.CountTasks(ctx(t), "L2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.CountTasks(ctx(t), "L9")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	max, err := s.MaxTaskPosition(ctx(t), "L1")
	require.NoError(t, err)
	assert.Equal(t, 1, max)

	max, err = s.MaxTaskPosition(ctx(t), "L9")
	require.NoError(t, err)
	assert.Equal(t, -1, max)

	all, err := s.GetTasks(ctx(t))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSetTaskPositionsScopedToList(t *testing.T) {
	s := newTestStore(t)
	seedList(t, s, "L1", 0)
	seedList(t, s, "L2", 1)
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "T1", ListID: "L1", Position: 0}))
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "T2", ListID: "L1", Position: 1}))
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "T3", ListID: "L2", Position: 0}))

	require.NoError(t, s.SetTaskPositions(ctx(t), "L1", []string{"T2", "T1"}))

	tasks, err := s.GetTasksByList(ctx(t), "L1")
	require.NoError(t, err)
	assert.Equal(t, "T2", tasks[0].ID)
	assert.Equal(t, 0, tasks[0].Position)
	assert.Equal(t, 1, tasks[1].Position)

	err = s.SetTaskPositions(ctx(t), "L1", []string{"T3"})
	assert.ErrorIs(t, err, ErrNotFound)
}
