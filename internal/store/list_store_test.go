package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}

func TestInsertAndGetList(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "B2", Name: "Groceries", Position: 0}))

	got, err := s.GetList(ctx(t), "B2")
	require.NoError(t, err)
	assert.Equal(t, model.List{ID: "B2", Name: "Groceries", Position: 0}, *got)
}

func TestInsertListRejectsEmptyID(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.InsertList(ctx(t), model.List{Name: "x"}))
}

func TestInsertListDuplicateID(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "B2", Name: "a"}))
	assert.Error(t, s.InsertList(ctx(t), model.List{ID: "B2", Name: "b"}))
}

func TestGetListNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetList(ctx(t), "Z9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateList(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "C3", Name: "List", Position: 2}))

	got, err := s.UpdateList(ctx(t), "C3", func(l *model.List) error {
		l.Name = "Renamed"
		l.Position--
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 1, got.Position)

	stored, err := s.GetList(ctx(t), "C3")
	require.NoError(t, err)
	assert.Equal(t, *got, *stored)
}

func TestUpdateListAbortedByMutator(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "C3", Name: "List"}))

	boom := errors.New("boom")
	_, err := s.UpdateList(ctx(t), "C3", func(l *model.List) error {
		l.Name = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := s.GetList(ctx(t), "C3")
	require.NoError(t, err)
	assert.Equal(t, "List", stored.Name)
}

func TestUpdateListNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateList(ctx(t), "Q1", func(*model.List) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteListRemovesTasks(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "D4", Name: "List"}))
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "E5", ListID: "D4", Position: 1}))
	require.NoError(t, s.InsertTask(ctx(t), model.Task{ID: "F6", ListID: "D4", Position: 0}))

	removed, err := s.DeleteList(ctx(t), "D4")
	require.NoError(t, err)
	assert.Equal(t, []string{"F6", "E5"}, removed)

	_, err = s.GetTask(ctx(t), "E5")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.DeleteList(ctx(t), "D4")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteListShiftsLaterLists(t *testing.T) {
	s := newTestStore(t)
	for i, id := range []string{"A1", "B1", "C1", "D1"} {
		require.NoError(t, s.InsertList(ctx(t), model.List{ID: id, Position: i}))
	}

	removed, err := s.DeleteList(ctx(t), "B1")
	require.NoError(t, err)
	assert.Empty(t, removed)

	lists, err := s.GetLists(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "C1", "D1"}, listIDs(lists))
	for i, l := range lists {
		assert.Equal(t, i, l.Position)
	}
}

func TestGetListsOrderedByPosition(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "A1", Position: 2}))
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "B1", Position: 0}))
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "C1", Position: 1}))

	lists, err := s.GetLists(ctx(t))
	require.NoError(t, err)
	require.Len(t, lists, 3)
	assert.Equal(t, []string{"B1", "C1", "A1"}, listIDs(lists))

	n, err := s.CountLists(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	max, err := s.MaxListPosition(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, 2, max)
}

func TestMaxListPositionEmpty(t *testing.T) {
	s := newTestStore(t)
	max, err := s.MaxListPosition(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, -1, max)
}

func TestSetListPositions(t *testing.T) {
	s := newTestStore(t)
	for i, id := range []string{"A1", "B1", "C1"} {
		require.NoError(t, s.InsertList(ctx(t), model.List{ID: id, Position: i}))
	}

	require.NoError(t, s.SetListPositions(ctx(t), []string{"C1", "A1", "B1"}))

	lists, err := s.GetLists(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"C1", "A1", "B1"}, listIDs(lists))
	for i, l := range lists {
		assert.Equal(t, i, l.Position)
	}
}

func TestSetListPositionsUnknownIDRollsBack(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "A1", Position: 0}))
	require.NoError(t, s.InsertList(ctx(t), model.List{ID: "B1", Position: 1}))

	err := s.SetListPositions(ctx(t), []string{"B1", "Z9"})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetList(ctx(t), "B1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Position)
}

func listIDs(lists []model.List) []string {
	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	return ids
}
