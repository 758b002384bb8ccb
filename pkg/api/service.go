// Package api exposes the task, agenda, and timer operations over REST.
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/focusflow/pkg/agenda"
	"tableflip.dev/focusflow/pkg/ical"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
	"tableflip.dev/focusflow/pkg/timer"
)

// ErrValidation marks inputs rejected before any store call.
var ErrValidation = errors.New("api: validation failed")

// Service coordinates persistence-backed operations shared by the REST
// handlers and the MCP tools.
type Service struct {
	Persistence store.Persistence
	Timer       *timer.Timer

	DailyTargetMinutes int
	ExportLead         time.Duration
	ExportGap          time.Duration

	now func() time.Time
}

// NewService builds a service around the given persistence and timer.
func NewService(p store.Persistence, t *timer.Timer) *Service {
	return &Service{
		Persistence:        p,
		Timer:              t,
		DailyTargetMinutes: 120,
		ExportLead:         ical.DefaultLeadMinutes * time.Minute,
		ExportGap:          ical.DefaultGapMinutes * time.Minute,
		now:                time.Now,
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *Service) categoriesByName(ctx context.Context) map[string]*task.Category {
	byName := make(map[string]*task.Category)
	for _, c := range s.Persistence.ListCategories(ctx) {
		byName[normalizeName(c.Name)] = c
	}
	return byName
}

// TaskFilter selects tasks for listing.
type TaskFilter struct {
	Status    string
	Category  string
	Priority  string
	Search    string
	FocusOnly bool
}

// ListTasks returns the filtered task list, focus members first.
func (s *Service) ListTasks(ctx context.Context, f TaskFilter) ([]TaskDTO, error) {
	status, err := parseOptionalStatus(f.Status)
	if err != nil {
		return nil, err
	}
	priority, err := parseOptionalPriority(f.Priority)
	if err != nil {
		return nil, err
	}

	categories := s.categoriesByName(ctx)
	out := make([]TaskDTO, 0)
	for _, t := range s.Persistence.ListTasks(ctx) {
		if status != nil && t.Status != *status {
			continue
		}
		if priority != nil && t.Priority != *priority {
			continue
		}
		if f.Category != "" && normalizeName(t.Category) != normalizeName(f.Category) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
			continue
		}
		if f.FocusOnly && !t.IsFocus {
			continue
		}
		out = append(out, taskDTO(t, categories))
	}
	return out, nil
}

func parseOptionalStatus(raw string) (*task.Status, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	st, err := task.ParseStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return &st, nil
}

func parseOptionalPriority(raw string) (*task.Priority, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	pr, err := task.ParsePriority(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return &pr, nil
}

// CreateTaskInput carries the fields accepted on task creation.
type CreateTaskInput struct {
	Title            string
	Description      string
	Status           string
	Priority         string
	DueAt            string
	EstimatedMinutes *int
	IsFocus          bool
	FocusRank        *int
	Source           string
	Category         string
	Event            *task.Event
}

// CreateTask validates the input and persists a new task.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (TaskDTO, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return TaskDTO{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	t := task.New(title)
	t.Description = in.Description
	t.IsFocus = in.IsFocus
	t.FocusRank = in.FocusRank
	t.Event = in.Event

	var err error
	if t.Status, err = task.ParseStatus(in.Status); err != nil {
		return TaskDTO{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if t.Priority, err = task.ParsePriority(in.Priority); err != nil {
		return TaskDTO{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.DueAt != "" {
		due, err := task.ParseTime(in.DueAt)
		if err != nil {
			return TaskDTO{}, fmt.Errorf("%w: due_at: %v", ErrValidation, err)
		}
		t.DueAt = &task.Timestamp{Time: due}
	}
	if in.EstimatedMinutes != nil {
		if *in.EstimatedMinutes < 0 {
			return TaskDTO{}, fmt.Errorf("%w: estimated_minutes must not be negative", ErrValidation)
		}
		est := *in.EstimatedMinutes
		t.EstimatedMinutes = &est
	}
	if in.Source != "" {
		t.Source = in.Source
	}
	if name := strings.TrimSpace(in.Category); name != "" {
		c, err := s.Persistence.EnsureCategory(name)
		if err != nil {
			return TaskDTO{}, err
		}
		t.Category = c.Name
	}

	if err := s.Persistence.CreateTask(t); err != nil {
		return TaskDTO{}, err
	}
	return taskDTO(t, s.categoriesByName(ctx)), nil
}

// UpdateTask applies a partial update. When the patch names a category the
// category is created on demand, matching the original backend.
func (s *Service) UpdateTask(ctx context.Context, id string, patch task.Patch) (TaskDTO, error) {
	if patch.Category != nil {
		if name := strings.TrimSpace(*patch.Category); name != "" {
			c, err := s.Persistence.EnsureCategory(name)
			if err != nil {
				return TaskDTO{}, err
			}
			patch.Category = &c.Name
		}
	}
	t, err := s.Persistence.UpdateTask(ctx, id, patch)
	if err != nil {
		return TaskDTO{}, err
	}
	return taskDTO(t, s.categoriesByName(ctx)), nil
}

// DeleteTask removes a task entirely.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.Persistence.DeleteTask(ctx, id)
}

// GetTask fetches one task.
func (s *Service) GetTask(ctx context.Context, id string) (TaskDTO, error) {
	t, err := s.Persistence.GetTask(ctx, id)
	if err != nil {
		return TaskDTO{}, err
	}
	return taskDTO(t, s.categoriesByName(ctx)), nil
}

// ListCategories returns every category, sorted by name.
func (s *Service) ListCategories(ctx context.Context) []CategoryDTO {
	out := make([]CategoryDTO, 0)
	for _, c := range s.Persistence.ListCategories(ctx) {
		out = append(out, *categoryDTO(c))
	}
	return out
}

// CreateCategory creates a category, or returns the existing one with the
// same name.
func (s *Service) CreateCategory(ctx context.Context, name, color string) (CategoryDTO, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryDTO{}, false, fmt.Errorf("%w: name is required", ErrValidation)
	}
	existing := s.categoriesByName(ctx)
	if c, ok := existing[normalizeName(name)]; ok {
		return *categoryDTO(c), false, nil
	}
	c, err := s.Persistence.EnsureCategory(name)
	if err != nil {
		return CategoryDTO{}, false, err
	}
	if color != "" {
		if c, err = s.Persistence.UpdateCategory(ctx, c.ID, nil, &color); err != nil {
			return CategoryDTO{}, false, err
		}
	}
	return *categoryDTO(c), true, nil
}

// UpdateCategory renames or recolors a category.
func (s *Service) UpdateCategory(ctx context.Context, id string, name, color *string) (CategoryDTO, error) {
	if name != nil && strings.TrimSpace(*name) == "" {
		return CategoryDTO{}, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	c, err := s.Persistence.UpdateCategory(ctx, id, name, color)
	if err != nil {
		return CategoryDTO{}, err
	}
	return *categoryDTO(c), nil
}

// DeleteCategory removes a category. Tasks keep their category name; it
// simply no longer resolves.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.Persistence.DeleteCategory(ctx, id)
}

// Agenda returns the ordered focus view, its aggregates, and a suggestion
// for what to pick up next.
func (s *Service) Agenda(ctx context.Context) AgendaDTO {
	members := agenda.Compute(s.Persistence.ListTasks(ctx))
	totals := agenda.Aggregate(members)
	suggested := agenda.SuggestNext(members, s.DailyTargetMinutes, totals.DoneMinutes)
	return agendaDTO(members, totals, suggested, s.categoriesByName(ctx))
}

// FocusAt places the task at the given agenda position. A task already on
// the agenda is removed first, so this is also the move operation.
func (s *Service) FocusAt(ctx context.Context, id string, index int) error {
	t, err := s.Persistence.GetTask(ctx, id)
	if err != nil {
		return err
	}

	members := agenda.Compute(s.Persistence.ListTasks(ctx))
	filtered := members[:0:0]
	for _, m := range members {
		if m.ID != t.ID {
			filtered = append(filtered, m)
		}
	}

	return agenda.Apply(ctx, s.Persistence, agenda.InsertAt(filtered, t, index))
}

// Unfocus drops the task from the agenda without renumbering the rest.
func (s *Service) Unfocus(ctx context.Context, id string) error {
	t, err := s.Persistence.GetTask(ctx, id)
	if err != nil {
		return err
	}
	return agenda.Apply(ctx, s.Persistence, []agenda.Update{agenda.Remove(t)})
}

// ReorderAgenda moves the member at from to position to. The false return
// signals a no-op (out-of-range or identical indices).
func (s *Service) ReorderAgenda(ctx context.Context, from, to int) (bool, error) {
	members := agenda.Compute(s.Persistence.ListTasks(ctx))
	updates, changed := agenda.Reorder(members, from, to)
	if !changed {
		return false, nil
	}
	return true, agenda.Apply(ctx, s.Persistence, updates)
}

// ExportICS renders the open agenda as an iCalendar document.
func (s *Service) ExportICS(ctx context.Context) string {
	members := agenda.Compute(s.Persistence.ListTasks(ctx))
	open := make([]*task.Task, 0, len(members))
	for _, t := range members {
		if t.Status != task.StatusDone {
			open = append(open, t)
		}
	}
	return ical.Export(open, s.now(), s.ExportLead, s.ExportGap)
}

// StartTimer begins timing the given task.
func (s *Service) StartTimer(ctx context.Context, taskID string) (timer.Snapshot, error) {
	t, err := s.Persistence.GetTask(ctx, taskID)
	if err != nil {
		return s.Timer.Snapshot(), err
	}
	if err := s.Timer.Start(t); err != nil {
		return s.Timer.Snapshot(), err
	}
	return s.Timer.Snapshot(), nil
}

// StopTimer ends the current run and credits the elapsed minutes to the
// task. The timer always resets; a persistence failure is surfaced but does
// not block the reset, and a vanished task makes the stop a plain reset.
func (s *Service) StopTimer(ctx context.Context) (timer.Snapshot, error) {
	res, ok := s.Timer.Stop()
	if !ok {
		return s.Timer.Snapshot(), nil
	}

	t, err := s.Persistence.GetTask(ctx, res.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.Timer.Snapshot(), nil
		}
		return s.Timer.Snapshot(), fmt.Errorf("api: stop timer: %w", err)
	}

	total := t.ActualOr(0) + res.CreditMinutes
	if _, err := s.Persistence.UpdateTask(ctx, res.TaskID, task.Patch{ActualMinutes: &total}); err != nil {
		return s.Timer.Snapshot(), fmt.Errorf("api: log %d minutes on %s: %w", res.CreditMinutes, res.TaskID, err)
	}
	return s.Timer.Snapshot(), nil
}

// TimerStatus reports the current timer snapshot.
func (s *Service) TimerStatus() timer.Snapshot {
	return s.Timer.Snapshot()
}

// IngestInvite turns a parsed calendar invite into an open task. The
// estimate is derived from the event duration when present.
func (s *Service) IngestInvite(ctx context.Context, inv *ical.Invite, categoryName string) (TaskDTO, error) {
	in := CreateTaskInput{
		Title:       inv.Summary,
		Description: inv.Description,
		Source:      task.SourceCalendarInvite,
		Category:    categoryName,
	}
	if minutes := inv.DurationMinutes(); minutes > 0 {
		in.EstimatedMinutes = &minutes
	}

	ev := &task.Event{UID: inv.UID, Attendees: inv.Attendees}
	if inv.Start != nil {
		ev.Start = &task.Timestamp{Time: *inv.Start}
	}
	if inv.End != nil {
		ev.End = &task.Timestamp{Time: *inv.End}
	}
	in.Event = ev

	return s.CreateTask(ctx, in)
}
