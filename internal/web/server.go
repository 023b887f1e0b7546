package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/nhle/taskboard/internal/model"
)

// NewRouter registers every board route on a fresh router.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/board", h.GetBoard).Methods("GET")

	api.HandleFunc("/lists", h.CreateList).Methods("POST")
	api.HandleFunc("/lists/order", h.ReorderLists).Methods("PUT")
	api.HandleFunc("/lists/{id}", h.RenameList).Methods("PATCH")
	api.HandleFunc("/lists/{id}", h.DeleteList).Methods("DELETE")
	api.HandleFunc("/lists/{id}/tasks", h.CreateTask).Methods("POST")
	api.HandleFunc("/lists/{id}/order", h.ReorderTasks).Methods("PUT")

	api.HandleFunc("/tasks/{id}", h.UpdateTask).Methods("PATCH")
	api.HandleFunc("/tasks/{id}", h.CompleteTask).Methods("DELETE")

	// WebSocket route for real-time updates
	api.HandleFunc("/ws", h.HandleWebSocket)

	return r
}

// NewServer wraps the router with CORS for the configured origins.
func NewServer(cfg model.ServerConfig, h *Handler) *http.Server {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      c.Handler(NewRouter(h)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
