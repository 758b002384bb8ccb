package add

import (
	"context"
	"time"

	"tableflip.dev/focusflow/pkg/printers"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

type Add struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Estimate    int
	Due         *time.Time
	Focus       bool

	ShowID      bool
	Persistence store.Persistence
}

func (n *Add) Do(ctx context.Context) error {
	t := task.New(n.Title)
	t.Description = n.Description

	var err error
	if t.Priority, err = task.ParsePriority(n.Priority); err != nil {
		return err
	}
	if n.Estimate > 0 {
		est := n.Estimate
		t.EstimatedMinutes = &est
	}
	if n.Due != nil {
		t.DueAt = &task.Timestamp{Time: *n.Due}
	}
	if n.Category != "" {
		c, err := n.Persistence.EnsureCategory(n.Category)
		if err != nil {
			return err
		}
		t.Category = c.Name
	}
	if n.Focus {
		t.IsFocus = true
		rank := nextRank(n.Persistence.ListTasks(ctx))
		t.FocusRank = &rank
	}

	if err := n.Persistence.CreateTask(t); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Title(t.Title)
	pp.Tasks(t)
	return nil
}

// nextRank appends behind the current agenda.
func nextRank(tasks []*task.Task) int {
	next := 0
	for _, t := range tasks {
		if t.IsFocus && t.FocusRank != nil && *t.FocusRank >= next {
			next = *t.FocusRank + 1
		}
	}
	return next
}
