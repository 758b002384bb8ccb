package task

import (
	"fmt"
	"strings"
	"time"
)

// Patch is a partial update. Only set fields are applied; Clear flags
// distinguish "set to null" from "leave alone" for the nullable fields.
type Patch struct {
	Title            *string
	Description      *string
	Status           *Status
	Priority         *Priority
	DueAt            *Timestamp
	ClearDueAt       bool
	EstimatedMinutes *int
	ClearEstimate    bool
	ActualMinutes    *int
	IsFocus          *bool
	FocusRank        *int
	ClearFocusRank   bool
	Category         *string
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p == Patch{}
}

// Apply mutates t in place and bumps Updated. Validation failures leave the
// task untouched.
func (p Patch) Apply(t *Task) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("task: title cannot be empty")
	}
	if p.EstimatedMinutes != nil && *p.EstimatedMinutes < 0 {
		return fmt.Errorf("task: estimated_minutes must not be negative")
	}
	if p.ActualMinutes != nil && *p.ActualMinutes < 0 {
		return fmt.Errorf("task: actual_minutes must not be negative")
	}

	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	switch {
	case p.ClearDueAt:
		t.DueAt = nil
	case p.DueAt != nil:
		t.DueAt = p.DueAt
	}
	switch {
	case p.ClearEstimate:
		t.EstimatedMinutes = nil
	case p.EstimatedMinutes != nil:
		v := *p.EstimatedMinutes
		t.EstimatedMinutes = &v
	}
	if p.ActualMinutes != nil {
		v := *p.ActualMinutes
		t.ActualMinutes = &v
	}
	if p.IsFocus != nil {
		t.IsFocus = *p.IsFocus
	}
	switch {
	case p.ClearFocusRank:
		t.FocusRank = nil
	case p.FocusRank != nil:
		v := *p.FocusRank
		t.FocusRank = &v
	}
	if p.Category != nil {
		t.Category = strings.TrimSpace(*p.Category)
	}

	t.Updated = Timestamp{Time: time.Now()}
	return nil
}
