// Package board keeps the ordering of lists and tasks consistent with
// what is stored, and owns the identifier lifecycle.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/nhle/taskboard/internal/ident"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

var (
	// ErrInvalidOrder is returned by a reorder whose ids are not exactly
	// the stored sibling set.
	ErrInvalidOrder = errors.New("order is not a permutation of the siblings")

	// ErrClosed is returned by any command issued after Close.
	ErrClosed = errors.New("session closed")
)

// queueSize bounds the number of store operations waiting to run.
const queueSize = 64

// Session owns the open store, its operation queue and the identifier
// allocator. Commands are serialized; each one awaits the store before
// issuing a dependent operation.
type Session struct {
	mu      sync.Mutex
	id      string
	store   store.Store
	queue   *store.Queue
	ids     *ident.Allocator
	log     *log.Logger
	bridges []Bridge
	closed  bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithAllocator replaces the identifier allocator.
func WithAllocator(a *ident.Allocator) Option {
	return func(s *Session) {
		s.ids = a
	}
}

// WithBridge registers a bridge before the session starts.
func WithBridge(b Bridge) Option {
	return func(s *Session) {
		s.bridges = append(s.bridges, b)
	}
}

// New wraps an already open store. Call Load before creating anything so
// the allocator knows which ids are taken.
func New(st store.Store, opts ...Option) *Session {
	s := &Session{
		id:    uuid.New().String(),
		store: st,
		queue: store.NewQueue(queueSize),
		ids:   ident.New(),
		log:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the database at path and returns a loaded session.
func Open(ctx context.Context, path string, opts ...Option) (*Session, model.Board, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, model.Board{}, fmt.Errorf("opening %s: %w", store.DatabaseName, err)
	}

	s := New(st, opts...)
	b, err := s.Load(ctx)
	if err != nil {
		s.Close()
		return nil, model.Board{}, err
	}
	return s, b, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Subscribe registers a bridge for future events.
func (s *Session) Subscribe(b Bridge) {
	s.mu.Lock()
	s.bridges = append(s.bridges, b)
	s.mu.Unlock()
}

// Close clears the allocator, drains the store queue and closes the store.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.ids.Reset()
	s.queue.Close()
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	s.log.Printf("session %s: closed", s.id)
	return nil
}

// lock acquires the session lock, failing once the session is closed.
func (s *Session) lock() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	return nil
}

func (s *Session) publish(e Event) {
	e.Session = s.id
	for _, b := range s.bridges {
		b.Publish(e)
	}
}

// fail logs a failed operation and returns err unchanged.
func (s *Session) fail(op string, err error) error {
	s.log.Printf("session %s: %s failed: %v", s.id, op, err)
	return err
}

// commit submits a write and waits for its outcome. The queue runs a
// submitted write to completion whatever happens to ctx, so the wait
// ignores cancellation and the session always sees the confirmed result.
func commit[T any](ctx context.Context, q *store.Queue, fn func(context.Context) (T, error)) (T, error) {
	return store.Run(context.WithoutCancel(ctx), q, fn)
}

// commitExec is commit for writes that produce no value.
func commitExec(ctx context.Context, q *store.Queue, fn func(context.Context) error) error {
	_, err := store.Exec(q, fn).Await(context.WithoutCancel(ctx))
	return err
}

// appendPosition is the stored count, or one past the highest stored
// position when removals have left gaps, so an appended record never
// collides with a sibling.
func appendPosition(count, maxPos int) int {
	if maxPos >= count {
		return maxPos + 1
	}
	return count
}

// Load scans both collections, reseeds the allocator from the stored ids
// and returns the board in display order.
func (s *Session) Load(ctx context.Context) (model.Board, error) {
	if err := s.lock(); err != nil {
		return model.Board{}, err
	}
	defer s.mu.Unlock()

	lists, tasks, err := s.scan(ctx)
	if err != nil {
		return model.Board{}, s.fail("load", err)
	}

	s.ids.Reset()
	for _, l := range lists {
		if err := s.ids.Reserve(l.ID); err != nil {
			s.log.Printf("session %s: list id: %v", s.id, err)
		}
	}
	for _, t := range tasks {
		if err := s.ids.Reserve(t.ID); err != nil {
			s.log.Printf("session %s: task id: %v", s.id, err)
		}
	}

	b := model.NewBoard(lists, tasks)
	s.log.Printf("session %s: loaded %d lists, %d tasks", s.id, len(lists), len(tasks))
	s.publish(Event{Kind: EventBoardLoaded, Board: &b})
	return b, nil
}

// Board returns the stored board without touching the allocator.
func (s *Session) Board(ctx context.Context) (model.Board, error) {
	if err := s.lock(); err != nil {
		return model.Board{}, err
	}
	defer s.mu.Unlock()

	lists, tasks, err := s.scan(ctx)
	if err != nil {
		return model.Board{}, s.fail("snapshot", err)
	}
	return model.NewBoard(lists, tasks), nil
}

func (s *Session) scan(ctx context.Context) ([]model.List, []model.Task, error) {
	st := s.store
	lists, err := store.Run(ctx, s.queue, st.GetLists)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := store.Run(ctx, s.queue, st.GetTasks)
	if err != nil {
		return nil, nil, err
	}
	return lists, tasks, nil
}
