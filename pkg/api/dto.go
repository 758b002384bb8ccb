package api

import (
	"tableflip.dev/focusflow/pkg/agenda"
	"tableflip.dev/focusflow/pkg/task"
)

// CategoryDTO is the transport projection of a category.
type CategoryDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
	Created string `json:"created_at"`
}

// TaskDTO is the transport projection of a task.
type TaskDTO struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Status           string       `json:"status"`
	Priority         string       `json:"priority"`
	DueAt            string       `json:"due_at,omitempty"`
	EstimatedMinutes *int         `json:"estimated_minutes"`
	ActualMinutes    *int         `json:"actual_minutes"`
	IsFocus          bool         `json:"is_focus"`
	FocusRank        *int         `json:"focus_rank"`
	Source           string       `json:"source,omitempty"`
	EventUID         string       `json:"event_uid,omitempty"`
	EventStart       string       `json:"event_start,omitempty"`
	EventEnd         string       `json:"event_end,omitempty"`
	EventAttendees   string       `json:"event_attendees,omitempty"`
	Category         *CategoryDTO `json:"category"`
	Created          string       `json:"created_at"`
	Updated          string       `json:"updated_at"`
}

// AgendaDTO is the ordered focus view plus its aggregates.
type AgendaDTO struct {
	Tasks           []TaskDTO `json:"tasks"`
	ReservedMinutes int       `json:"reserved_minutes"`
	DoneMinutes     int       `json:"done_minutes"`
	Suggested       *TaskDTO  `json:"suggested,omitempty"`
}

func categoryDTO(c *task.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:      c.ID,
		Name:    c.Name,
		Color:   c.Color,
		Created: c.Created.String(),
	}
}

func taskDTO(t *task.Task, categories map[string]*task.Category) TaskDTO {
	dto := TaskDTO{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           string(t.Status),
		Priority:         string(t.Priority),
		EstimatedMinutes: t.EstimatedMinutes,
		ActualMinutes:    t.ActualMinutes,
		IsFocus:          t.IsFocus,
		FocusRank:        t.FocusRank,
		Source:           t.Source,
		Created:          t.Created.String(),
		Updated:          t.Updated.String(),
	}
	if t.DueAt != nil {
		dto.DueAt = t.DueAt.String()
	}
	if t.Event != nil {
		dto.EventUID = t.Event.UID
		if t.Event.Start != nil {
			dto.EventStart = t.Event.Start.String()
		}
		if t.Event.End != nil {
			dto.EventEnd = t.Event.End.String()
		}
		dto.EventAttendees = t.Event.Attendees
	}
	if t.Category != "" {
		if c, ok := categories[normalizeName(t.Category)]; ok {
			dto.Category = categoryDTO(c)
		} else {
			dto.Category = &CategoryDTO{Name: t.Category}
		}
	}
	return dto
}

func agendaDTO(members []*task.Task, totals agenda.Totals, suggested *task.Task, categories map[string]*task.Category) AgendaDTO {
	dto := AgendaDTO{
		Tasks:           make([]TaskDTO, 0, len(members)),
		ReservedMinutes: totals.ReservedMinutes,
		DoneMinutes:     totals.DoneMinutes,
	}
	for _, t := range members {
		dto.Tasks = append(dto.Tasks, taskDTO(t, categories))
	}
	if suggested != nil {
		s := taskDTO(suggested, categories)
		dto.Suggested = &s
	}
	return dto
}
