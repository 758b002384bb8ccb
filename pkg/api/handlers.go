package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
	"tableflip.dev/focusflow/pkg/timer"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, timer.ErrRunning):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.ListCategories(r.Context()))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, created, err := s.svc.CreateCategory(r.Context(), body.Name, body.Color)
	if err != nil {
		writeFailure(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var name, color *string
	if v, ok := raw["name"]; ok {
		name = new(string)
		if err := json.Unmarshal(v, name); err != nil {
			writeError(w, http.StatusBadRequest, "name must be a string")
			return
		}
	}
	if v, ok := raw["color"]; ok {
		color = new(string)
		if err := json.Unmarshal(v, color); err != nil {
			writeError(w, http.StatusBadRequest, "color must be a string")
			return
		}
	}
	c, err := s.svc.UpdateCategory(r.Context(), r.PathValue("id"), name, color)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := s.svc.ListTasks(r.Context(), TaskFilter{
		Status:    q.Get("status"),
		Category:  q.Get("category"),
		Priority:  q.Get("priority"),
		Search:    q.Get("search"),
		FocusOnly: q.Get("focus") == "1",
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	Priority         string `json:"priority"`
	DueAt            string `json:"due_at"`
	EstimatedMinutes *int   `json:"estimated_minutes"`
	IsFocus          bool   `json:"is_focus"`
	FocusRank        *int   `json:"focus_rank"`
	Source           string `json:"source"`
	CategoryName     string `json:"category_name"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.svc.CreateTask(r.Context(), CreateTaskInput{
		Title:            body.Title,
		Description:      body.Description,
		Status:           body.Status,
		Priority:         body.Priority,
		DueAt:            body.DueAt,
		EstimatedMinutes: body.EstimatedMinutes,
		IsFocus:          body.IsFocus,
		FocusRank:        body.FocusRank,
		Source:           body.Source,
		Category:         body.CategoryName,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	patch, err := patchFromJSON(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.svc.UpdateTask(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// patchFromJSON maps a PATCH body onto a task.Patch. Key presence decides
// what changes; an explicit null clears the nullable fields.
func patchFromJSON(raw map[string]json.RawMessage) (task.Patch, error) {
	var patch task.Patch

	if v, ok := raw["title"]; ok {
		patch.Title = new(string)
		if err := json.Unmarshal(v, patch.Title); err != nil {
			return patch, fmt.Errorf("title must be a string")
		}
	}
	if v, ok := raw["description"]; ok {
		patch.Description = new(string)
		if err := json.Unmarshal(v, patch.Description); err != nil {
			return patch, fmt.Errorf("description must be a string")
		}
	}
	if v, ok := raw["status"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return patch, fmt.Errorf("status must be a string")
		}
		st, err := task.ParseStatus(s)
		if err != nil {
			return patch, err
		}
		patch.Status = &st
	}
	if v, ok := raw["priority"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return patch, fmt.Errorf("priority must be a string")
		}
		pr, err := task.ParsePriority(s)
		if err != nil {
			return patch, err
		}
		patch.Priority = &pr
	}
	if v, ok := raw["due_at"]; ok {
		if isNull(v) {
			patch.ClearDueAt = true
		} else {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return patch, fmt.Errorf("due_at must be a timestamp or null")
			}
			due, err := task.ParseTime(s)
			if err != nil {
				return patch, fmt.Errorf("due_at: %v", err)
			}
			patch.DueAt = &task.Timestamp{Time: due}
		}
	}
	if v, ok := raw["estimated_minutes"]; ok {
		if isNull(v) {
			patch.ClearEstimate = true
		} else {
			patch.EstimatedMinutes = new(int)
			if err := json.Unmarshal(v, patch.EstimatedMinutes); err != nil {
				return patch, fmt.Errorf("estimated_minutes must be a number or null")
			}
		}
	}
	if v, ok := raw["actual_minutes"]; ok {
		patch.ActualMinutes = new(int)
		if err := json.Unmarshal(v, patch.ActualMinutes); err != nil {
			return patch, fmt.Errorf("actual_minutes must be a number")
		}
	}
	if v, ok := raw["is_focus"]; ok {
		patch.IsFocus = new(bool)
		if err := json.Unmarshal(v, patch.IsFocus); err != nil {
			return patch, fmt.Errorf("is_focus must be a boolean")
		}
	}
	if v, ok := raw["focus_rank"]; ok {
		if isNull(v) {
			patch.ClearFocusRank = true
		} else {
			patch.FocusRank = new(int)
			if err := json.Unmarshal(v, patch.FocusRank); err != nil {
				return patch, fmt.Errorf("focus_rank must be a number or null")
			}
		}
	}
	if v, ok := raw["category_name"]; ok {
		patch.Category = new(string)
		if err := json.Unmarshal(v, patch.Category); err != nil {
			return patch, fmt.Errorf("category_name must be a string")
		}
	}

	return patch, nil
}

func isNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}

func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Agenda(r.Context()))
}

func (s *Server) handleFocusTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.FocusAt(r.Context(), r.PathValue("id"), body.Index); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Agenda(r.Context()))
}

func (s *Server) handleUnfocusTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Unfocus(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Agenda(r.Context()))
}

func (s *Server) handleReorderAgenda(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.svc.ReorderAgenda(r.Context(), body.From, body.To); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Agenda(r.Context()))
}

func (s *Server) handleExportAgenda(w http.ResponseWriter, r *http.Request) {
	doc := s.svc.ExportICS(r.Context())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="focusflow.ics"`)
	_, _ = w.Write([]byte(doc))
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := s.svc.StartTimer(r.Context(), body.TaskID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStopTimer(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.StopTimer(r.Context())
	if err != nil {
		// The timer reset regardless; surface the lost minutes.
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTimerStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.TimerStatus())
}

type inboxCalendarRequest struct {
	UID          string `json:"uid"`
	Summary      string `json:"summary"`
	Description  string `json:"description"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Attendees    string `json:"attendees"`
	CategoryName string `json:"category_name"`
}

func (s *Server) handleInboxCalendar(w http.ResponseWriter, r *http.Request) {
	var body inboxCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := CreateTaskInput{
		Title:       strings.TrimSpace(body.Summary),
		Description: body.Description,
		Source:      task.SourceCalendarInvite,
		Category:    body.CategoryName,
	}
	if in.Title == "" {
		in.Title = "Calendar event"
	}

	ev := &task.Event{UID: body.UID, Attendees: body.Attendees}
	var start, end *task.Timestamp
	if body.Start != "" {
		at, err := task.ParseTime(body.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("start: %v", err))
			return
		}
		start = &task.Timestamp{Time: at}
	}
	if body.End != "" {
		at, err := task.ParseTime(body.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("end: %v", err))
			return
		}
		end = &task.Timestamp{Time: at}
	}
	ev.Start, ev.End = start, end
	in.Event = ev

	if start != nil && end != nil && end.After(start.Time) {
		minutes := int(end.Sub(start.Time) / time.Minute)
		in.EstimatedMinutes = &minutes
	}

	t, err := s.svc.CreateTask(r.Context(), in)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}
