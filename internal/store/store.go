package store

import (
	"context"
	"errors"

	"github.com/nhle/taskboard/internal/model"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// ListStore persists the "lists" collection.
type ListStore interface {
	InsertList(ctx context.Context, list model.List) error
	GetList(ctx context.Context, id string) (*model.List, error)

	// UpdateList reads the list, applies fn and writes it back in one
	// transaction. Returning an error from fn aborts the write.
	UpdateList(ctx context.Context, id string, fn func(*model.List) error) (*model.List, error)

	// DeleteList removes the list with its tasks and closes the position
	// gap in one transaction, returning the removed task ids.
	DeleteList(ctx context.Context, id string) ([]string, error)

	GetLists(ctx context.Context) ([]model.List, error)
	CountLists(ctx context.Context) (int, error)
	MaxListPosition(ctx context.Context) (int, error)

	// SetListPositions writes position = index for each id in one
	// transaction.
	SetListPositions(ctx context.Context, ids []string) error
}

// TaskStore persists the "tasks" collection, indexed by list id.
type TaskStore interface {
	InsertTask(ctx context.Context, task model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)

	// UpdateTask reads the task, applies fn and writes it back in one
	// transaction. Returning an error from fn aborts the write.
	UpdateTask(ctx context.Context, id string, fn func(*model.Task) error) (*model.Task, error)

	DeleteTask(ctx context.Context, id string) error
	GetTasks(ctx context.Context) ([]model.Task, error)
	GetTasksByList(ctx context.Context, listID string) ([]model.Task, error)
	CountTasks(ctx context.Context, listID string) (int, error)
	MaxTaskPosition(ctx context.Context, listID string) (int, error)

	// SetTaskPositions writes position = index for each id of listID in
	// one transaction.
	SetTaskPositions(ctx context.Context, listID string, ids []string) error
}

// Store defines the persistence interface for the board.
type Store interface {
	ListStore
	TaskStore
	Close() error
}
