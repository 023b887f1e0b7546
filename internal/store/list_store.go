package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/taskboard/internal/model"
)

// InsertList adds a new list record.
func (s *SQLiteStore) InsertList(ctx context.Context, list model.List) error {
	if strings.TrimSpace(list.ID) == "" {
		return fmt.Errorf("list id must not be empty")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO lists (id, name, position) VALUES (?, ?, ?)",
		list.ID, list.Name, list.Position,
	)
	if err != nil {
		return fmt.Errorf("creating list %s: %w", list.ID, err)
	}
	return nil
}

// GetList retrieves a single list by ID.
func (s *SQLiteStore) GetList(ctx context.Context, id string) (*model.List, error) {
	var list model.List
	err := s.db.GetContext(ctx, &list, "SELECT id, name, position FROM lists WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting list %s: %w", id, notFound(err))
	}
	return &list, nil
}

// UpdateList applies fn to the stored list and persists the result.
func (s *SQLiteStore) UpdateList(
	ctx context.Context,
	id string,
	fn func(*model.List) error,
) (*model.List, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var list model.List
	err = tx.GetContext(ctx, &list, "SELECT id, name, position FROM lists WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting list %s: %w", id, notFound(err))
	}

	if err := fn(&list); err != nil {
		return nil, err
	}
	list.ID = id

	_, err = tx.ExecContext(ctx,
		"UPDATE lists SET name = ?, position = ? WHERE id = ?",
		list.Name, list.Position, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating list %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing list %s: %w", id, err)
	}
	return &list, nil
}

// DeleteList removes a list and its tasks, then decrements every list
// stored after it, all in one transaction. It returns the ids of the
// removed tasks.
func (s *SQLiteStore) DeleteList(ctx context.Context, id string) ([]string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var pos int
	if err := tx.GetContext(ctx, &pos, "SELECT position FROM lists WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("getting list %s: %w", id, notFound(err))
	}

	removed := []string{}
	err = tx.SelectContext(ctx, &removed,
		"SELECT id FROM tasks WHERE list_id = ? ORDER BY position, id", id)
	if err != nil {
		return nil, fmt.Errorf("querying tasks for list %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE list_id = ?", id); err != nil {
		return nil, fmt.Errorf("deleting tasks of list %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("deleting list %s: %w", id, err)
	}
	_, err = tx.ExecContext(ctx, "UPDATE lists SET position = position - 1 WHERE position > ?", pos)
	if err != nil {
		return nil, fmt.Errorf("shifting lists after %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing delete of list %s: %w", id, err)
	}
	return removed, nil
}

// GetLists retrieves every list ordered by position.
func (s *SQLiteStore) GetLists(ctx context.Context) ([]model.List, error) {
	var lists []model.List
	err := s.db.SelectContext(ctx, &lists,
		"SELECT id, name, position FROM lists ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}
	return lists, nil
}

// CountLists returns the number of stored lists.
func (s *SQLiteStore) CountLists(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM lists"); err != nil {
		return 0, fmt.Errorf("counting lists: %w", err)
	}
	return n, nil
}

// MaxListPosition returns the highest stored list position, or -1 when
// there are no lists.
func (s *SQLiteStore) MaxListPosition(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COALESCE(MAX(position), -1) FROM lists"); err != nil {
		return 0, fmt.Errorf("reading max list position: %w", err)
	}
	return n, nil
}

// SetListPositions assigns position = index to each list in ids.
func (s *SQLiteStore) SetListPositions(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setPositions(ctx, tx, "UPDATE lists SET position = ? WHERE id = ?", "list", ids); err != nil {
		return err
	}
	return tx.Commit()
}
