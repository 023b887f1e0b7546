package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/ident"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// Session is the subset of board.Session the routes drive.
type Session interface {
	Board(ctx context.Context) (model.Board, error)
	CreateList(ctx context.Context) (model.List, error)
	RenameList(ctx context.Context, id, name string) (model.List, error)
	DeleteList(ctx context.Context, id string) error
	CreateTask(ctx context.Context, listID string) (model.Task, error)
	UpdateTask(ctx context.Context, id string, c board.TaskChanges) (model.Task, error)
	CompleteTask(ctx context.Context, id string) error
	ReorderLists(ctx context.Context, order []string) error
	ReorderTasks(ctx context.Context, listID string, order []string) error
}

// Handler serves the board routes.
type Handler struct {
	session  Session
	hub      *Hub
	upgrader websocket.Upgrader
	log      *log.Logger
}

// NewHandler creates a Handler. WebSocket upgrades are accepted from the
// given origins and from same-origin pages.
func NewHandler(s Session, hub *Hub, origins []string, logger *log.Logger) *Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return &Handler{
		session: s,
		hub:     hub,
		log:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin] || origin == "http://"+r.Host
			},
		},
	}
}

type renameRequest struct {
	Name string `json:"name"`
}

// taskPatch carries the task fields to change; absent fields are kept.
type taskPatch struct {
	Description *string `json:"task"`
	Resolution  *string `json:"resolution"`
	Status      *string `json:"status"`
}

type orderRequest struct {
	Order []string `json:"order"`
}

// GetBoard writes the whole board in display order.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	b, err := h.session.Board(r.Context())
	if err != nil {
		h.writeError(w, "get board", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateList appends a list.
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	l, err := h.session.CreateList(r.Context())
	if err != nil {
		h.writeError(w, "create list", err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// RenameList changes a list's name.
func (h *Handler) RenameList(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !decode(w, r, &req) {
		return
	}

	l, err := h.session.RenameList(r.Context(), mux.Vars(r)["id"], req.Name)
	if err != nil {
		h.writeError(w, "rename list", err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// DeleteList deletes a list with its tasks.
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.session.DeleteList(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, "delete list", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateTask appends an empty task to a list.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.session.CreateTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTask applies the fields present in the body in one write and
// returns the resulting task.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch taskPatch
	if !decode(w, r, &patch) {
		return
	}

	changes := board.TaskChanges{
		Description: patch.Description,
		Resolution:  patch.Resolution,
	}
	if patch.Status != nil {
		st, err := model.ParseStatus(*patch.Status)
		if err != nil {
			h.writeError(w, "update task", err)
			return
		}
		changes.Status = &st
	}
	if changes.Empty() {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	t, err := h.session.UpdateTask(r.Context(), mux.Vars(r)["id"], changes)
	if err != nil {
		h.writeError(w, "update task", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CompleteTask removes a task.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.session.CompleteTask(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, "complete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderLists stores the given list order.
func (h *Handler) ReorderLists(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.session.ReorderLists(r.Context(), req.Order); err != nil {
		h.writeError(w, "reorder lists", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderTasks stores the given task order within one list.
func (h *Handler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.session.ReorderTasks(r.Context(), mux.Vars(r)["id"], req.Order); err != nil {
		h.writeError(w, "reorder tasks", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleWebSocket upgrades the connection and subscribes it to events.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Printf("websocket upgrade: %v", err)
		return
	}

	client := NewClient(h.hub, conn)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// writeError logs err and maps it to a status code.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	h.log.Printf("%s: %v", op, err)
	http.Error(w, err.Error(), statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrInvalidOrder), errors.Is(err, model.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, ident.ErrExhausted):
		return http.StatusConflict
	case errors.Is(err, board.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
