package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"tableflip.dev/focusflow/pkg/store"
)

// Server routes the REST surface onto a Service.
type Server struct {
	svc *Service
}

// NewServer wraps the service with HTTP handlers.
func NewServer(svc *Service) *Server {
	return &Server{svc: svc}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PATCH /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	mux.HandleFunc("GET /api/agenda", s.handleAgenda)
	mux.HandleFunc("POST /api/agenda/reorder", s.handleReorderAgenda)
	mux.HandleFunc("POST /api/agenda/{id}", s.handleFocusTask)
	mux.HandleFunc("DELETE /api/agenda/{id}", s.handleUnfocusTask)
	mux.HandleFunc("GET /api/agenda/export", s.handleExportAgenda)

	mux.HandleFunc("POST /api/timer/start", s.handleStartTimer)
	mux.HandleFunc("POST /api/timer/stop", s.handleStopTimer)
	mux.HandleFunc("GET /api/timer", s.handleTimerStatus)

	mux.HandleFunc("POST /api/inbox/calendar", s.handleInboxCalendar)

	mux.HandleFunc("GET /api/events", s.handleEvents)

	return mux
}

// ListenAndServe serves the REST API until ctx is cancelled, then shuts the
// server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[api] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api: shutdown: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api: serve: %w", err)
		}
		return nil
	}
}

func eventName(t store.EventType) string {
	switch t {
	case store.EventTasksChanged:
		return "tasks"
	case store.EventCategoriesChanged:
		return "categories"
	default:
		return "invalidated"
	}
}

// handleEvents streams store change notifications as server-sent events so a
// frontend can refresh without polling.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, err := s.svc.Persistence.Watch(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			payload, _ := json.Marshal(map[string]string{"changed": eventName(ev.Type)})
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
