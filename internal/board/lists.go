package board

import (
	"context"
	"fmt"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// CreateList appends a new list named "List" after every stored list.
func (s *Session) CreateList(ctx context.Context) (model.List, error) {
	if err := s.lock(); err != nil {
		return model.List{}, err
	}
	defer s.mu.Unlock()

	st := s.store
	count, err := store.Run(ctx, s.queue, st.CountLists)
	if err != nil {
		return model.List{}, s.fail("create list", err)
	}
	maxPos, err := store.Run(ctx, s.queue, st.MaxListPosition)
	if err != nil {
		return model.List{}, s.fail("create list", err)
	}

	id, err := s.ids.Allocate()
	if err != nil {
		return model.List{}, s.fail("create list", err)
	}

	list := model.List{ID: id, Name: model.DefaultListName, Position: appendPosition(count, maxPos)}
	err = commitExec(ctx, s.queue, func(ctx context.Context) error {
		return st.InsertList(ctx, list)
	})
	if err != nil {
		s.ids.Release(id)
		return model.List{}, s.fail("create list", err)
	}

	s.log.Printf("session %s: created list %s at %d", s.id, id, list.Position)
	s.publish(Event{Kind: EventListCreated, List: &list})
	return list, nil
}

// RenameList stores a new name for the list.
func (s *Session) RenameList(ctx context.Context, id, name string) (model.List, error) {
	if err := s.lock(); err != nil {
		return model.List{}, err
	}
	defer s.mu.Unlock()

	st := s.store
	list, err := commit(ctx, s.queue, func(ctx context.Context) (*model.List, error) {
		return st.UpdateList(ctx, id, func(l *model.List) error {
			l.Name = name
			return nil
		})
	})
	if err != nil {
		return model.List{}, s.fail("rename list "+id, err)
	}

	s.log.Printf("session %s: renamed list %s", s.id, id)
	s.publish(Event{Kind: EventListRenamed, List: list})
	return *list, nil
}

// DeleteList removes the list and its tasks and decrements every list
// stored after it, then frees the ids. The store applies the whole change
// in one transaction against the positions it currently holds, so
// back-to-back deletions stay dense.
func (s *Session) DeleteList(ctx context.Context, id string) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	st := s.store
	removed, err := commit(ctx, s.queue, func(ctx context.Context) ([]string, error) {
		return st.DeleteList(ctx, id)
	})
	if err != nil {
		return s.fail("delete list "+id, err)
	}

	for _, taskID := range removed {
		s.ids.Release(taskID)
	}
	s.ids.Release(id)

	s.log.Printf("session %s: deleted list %s and %d tasks", s.id, id, len(removed))
	s.publish(Event{Kind: EventListDeleted, ID: id, Removed: removed})
	return nil
}

// ReorderLists writes position = index for every list in order. The order
// must name each stored list exactly once.
func (s *Session) ReorderLists(ctx context.Context, order []string) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	st := s.store
	lists, err := store.Run(ctx, s.queue, st.GetLists)
	if err != nil {
		return s.fail("reorder lists", err)
	}

	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	if err := checkPermutation(ids, order); err != nil {
		return s.fail("reorder lists", err)
	}

	order = append([]string(nil), order...)
	err = commitExec(ctx, s.queue, func(ctx context.Context) error {
		return st.SetListPositions(ctx, order)
	})
	if err != nil {
		return s.fail("reorder lists", err)
	}

	s.log.Printf("session %s: reordered %d lists", s.id, len(order))
	s.publish(Event{Kind: EventListsReordered, Order: order})
	return nil
}

// checkPermutation reports ErrInvalidOrder unless order contains exactly
// the ids in stored.
func checkPermutation(stored, order []string) error {
	if len(stored) != len(order) {
		return fmt.Errorf("%w: got %d ids, want %d", ErrInvalidOrder, len(order), len(stored))
	}

	want := make(map[string]bool, len(stored))
	for _, id := range stored {
		want[id] = true
	}
	for _, id := range order {
		if !want[id] {
			return fmt.Errorf("%w: unexpected or repeated id %q", ErrInvalidOrder, id)
		}
		delete(want, id)
	}
	return nil
}
