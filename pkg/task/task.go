// Package task defines the task and category model shared by every
// FocusFlow component.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status describes the lifecycle state of a task.
type Status string

const (
	// StatusOpen is a task that still needs doing.
	StatusOpen Status = "open"
	// StatusDone is a completed task.
	StatusDone Status = "done"
	// StatusSnoozed is a task deliberately parked for later.
	StatusSnoozed Status = "snoozed"
)

// AllStatuses returns the supported statuses.
func AllStatuses() []Status {
	return []Status{StatusOpen, StatusDone, StatusSnoozed}
}

// ParseStatus converts a string to a Status or returns an error for unknown
// values. The empty string maps to StatusOpen.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return StatusOpen, nil
	}
	for _, candidate := range AllStatuses() {
		if candidate == s {
			return candidate, nil
		}
	}
	return StatusOpen, fmt.Errorf("task: unknown status %q", raw)
}

// Priority ranks how important a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities returns the supported priorities.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority converts a string to a Priority. The empty string maps to
// PriorityMedium.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityMedium, nil
	}
	for _, candidate := range AllPriorities() {
		if candidate == p {
			return candidate, nil
		}
	}
	return PriorityMedium, fmt.Errorf("task: unknown priority %q", raw)
}

// Source records where a task came from.
const (
	SourceManual         = "manual"
	SourceCalendarInvite = "calendar_invite"
)

// Event carries the calendar details for tasks ingested from invites.
type Event struct {
	UID       string     `json:"uid,omitempty"`
	Start     *Timestamp `json:"start,omitempty"`
	End       *Timestamp `json:"end,omitempty"`
	Attendees string     `json:"attendees,omitempty"`
}

// Task is the unit of work everything else schedules, times, and exports.
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Status           Status     `json:"status"`
	Priority         Priority   `json:"priority"`
	DueAt            *Timestamp `json:"due_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	ActualMinutes    *int       `json:"actual_minutes,omitempty"`
	IsFocus          bool       `json:"is_focus"`
	FocusRank        *int       `json:"focus_rank,omitempty"`
	Source           string     `json:"source,omitempty"`
	Category         string     `json:"category,omitempty"`
	Event            *Event     `json:"event,omitempty"`
	Created          Timestamp  `json:"created"`
	Updated          Timestamp  `json:"updated"`
}

// New creates an open, medium-priority task with a fresh id.
func New(title string) *Task {
	now := Timestamp{Time: time.Now()}
	return &Task{
		ID:       uuid.NewString(),
		Title:    title,
		Status:   StatusOpen,
		Priority: PriorityMedium,
		Source:   SourceManual,
		Created:  now,
		Updated:  now,
	}
}

// HasEstimate reports whether the task carries a time estimate.
func (t *Task) HasEstimate() bool {
	return t.EstimatedMinutes != nil
}

// EstimateOr returns the estimate, or def when there is none.
func (t *Task) EstimateOr(def int) int {
	if t.EstimatedMinutes == nil {
		return def
	}
	return *t.EstimatedMinutes
}

// ActualOr returns the accumulated logged minutes, or def when none.
func (t *Task) ActualOr(def int) int {
	if t.ActualMinutes == nil {
		return def
	}
	return *t.ActualMinutes
}

// Validate checks the invariants the store refuses to persist without.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task: title is required")
	}
	if t.EstimatedMinutes != nil && *t.EstimatedMinutes < 0 {
		return fmt.Errorf("task: estimated_minutes must not be negative")
	}
	if t.ActualMinutes != nil && *t.ActualMinutes < 0 {
		return fmt.Errorf("task: actual_minutes must not be negative")
	}
	return nil
}

// Category groups tasks by area (work, personal, ...). A task belongs to at
// most one category, referenced by name.
type Category struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Color   string    `json:"color,omitempty"`
	Created Timestamp `json:"created"`
}

// NewCategory creates a category with a fresh id.
func NewCategory(name string) *Category {
	return &Category{
		ID:      uuid.NewString(),
		Name:    name,
		Created: Timestamp{Time: time.Now()},
	}
}
