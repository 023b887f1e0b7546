package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/taskboard/internal/model"
)

const taskColumns = "id, list_id, description, resolution, status, position"

// InsertTask adds a new task record. An empty status is stored as normal.
func (s *SQLiteStore) InsertTask(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.ID) == "" {
		return fmt.Errorf("task id must not be empty")
	}
	if task.Status == "" {
		task.Status = model.StatusNormal
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, list_id, description, resolution, status, position)
		VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID, task.ListID, task.Description, task.Resolution,
		string(task.Status), task.Position,
	)
	if err != nil {
		return fmt.Errorf("creating task %s: %w", task.ID, err)
	}
	return nil
}

// GetTask retrieves a single task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := s.db.GetContext(ctx, &task, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, notFound(err))
	}
	return &task, nil
}

// UpdateTask applies fn to the stored task and persists the result.
func (s *SQLiteStore) UpdateTask(
	ctx context.Context,
	id string,
	fn func(*model.Task) error,
) (*model.Task, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var task model.Task
	err = tx.GetContext(ctx, &task, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, notFound(err))
	}

	if err := fn(&task); err != nil {
		return nil, err
	}
	task.ID = id

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET
			list_id = ?, description = ?, resolution = ?,
			status = ?, position = ?
		WHERE id = ?`,
		task.ListID, task.Description, task.Resolution,
		string(task.Status), task.Position, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing task %s: %w", id, err)
	}
	return &task, nil
}

// DeleteTask removes a task.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetTasks retrieves every task, grouped by list and ordered by position.
func (s *SQLiteStore) GetTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT "+taskColumns+" FROM tasks ORDER BY list_id, position, id")
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	return tasks, nil
}

// GetTasksByList retrieves the tasks of one list ordered by position.
func (s *SQLiteStore) GetTasksByList(ctx context.Context, listID string) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT "+taskColumns+" FROM tasks WHERE list_id = ? ORDER BY position, id", listID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks for list %s: %w", listID, err)
	}
	return tasks, nil
}

// CountTasks returns the number of tasks stored under listID.
func (s *SQLiteStore) CountTasks(ctx context.Context, listID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM tasks WHERE list_id = ?", listID)
	if err != nil {
		return 0, fmt.Errorf("counting tasks for list %s: %w", listID, err)
	}
	return n, nil
}

// MaxTaskPosition returns the highest position stored under listID, or -1
// when the list has no tasks.
func (s *SQLiteStore) MaxTaskPosition(ctx context.Context, listID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COALESCE(MAX(position), -1) FROM tasks WHERE list_id = ?", listID)
	if err != nil {
		return 0, fmt.Errorf("reading max task position for list %s: %w", listID, err)
	}
	return n, nil
}

// SetTaskPositions assigns position = index to each task of listID in ids.
func (s *SQLiteStore) SetTaskPositions(ctx context.Context, listID string, ids []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	err = setPositions(ctx, tx,
		"UPDATE tasks SET position = ? WHERE id = ? AND list_id = ?", "task", ids, listID)
	if err != nil {
		return err
	}
	return tx.Commit()
}
