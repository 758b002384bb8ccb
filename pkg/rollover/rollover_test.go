package rollover

import (
	"context"
	"testing"

	"tableflip.dev/focusflow/pkg/agenda"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

func focusTask(title string, rank int, status task.Status) *task.Task {
	t := task.New(title)
	t.Status = status
	t.IsFocus = true
	r := rank
	t.FocusRank = &r
	return t
}

func TestSweepDropsDoneAndRenumbers(t *testing.T) {
	a := focusTask("A", 0, task.StatusOpen)
	b := focusTask("B", 1, task.StatusDone)
	c := focusTask("C", 2, task.StatusOpen)
	d := task.New("not on agenda")

	updates := Sweep([]*task.Task{d, c, b, a})
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}

	byID := make(map[string]agenda.Update, len(updates))
	for _, u := range updates {
		byID[u.ID] = u
	}

	if u := byID[b.ID]; u.Focus {
		t.Fatalf("done task should leave the agenda: %+v", u)
	}
	if u := byID[a.ID]; !u.Focus || u.Rank != 0 {
		t.Fatalf("A should keep rank 0: %+v", u)
	}
	if u := byID[c.ID]; !u.Focus || u.Rank != 1 {
		t.Fatalf("C should close the gap: %+v", u)
	}
	if _, ok := byID[d.ID]; ok {
		t.Fatalf("non-members must not be touched")
	}
}

func TestSweepEmptyAgenda(t *testing.T) {
	if updates := Sweep([]*task.Task{task.New("loose")}); len(updates) != 0 {
		t.Fatalf("expected no updates, got %d", len(updates))
	}
}

type dirConfig string

func (c dirConfig) BasePath() string { return string(c) }

func TestRunOnce(t *testing.T) {
	p, err := store.Load(dirConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	ctx := context.Background()

	a := focusTask("A", 0, task.StatusDone)
	b := focusTask("B", 1, task.StatusOpen)
	for _, tk := range []*task.Task{a, b} {
		if err := p.CreateTask(tk); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	svc := NewService(p, "")
	if err := svc.RunOnce(ctx); err != nil {
		t.Fatalf("run once: %v", err)
	}

	members := agenda.Compute(p.ListTasks(ctx))
	if len(members) != 1 || members[0].ID != b.ID {
		t.Fatalf("agenda after sweep: %+v", members)
	}
	if members[0].FocusRank == nil || *members[0].FocusRank != 0 {
		t.Fatalf("survivor should hold rank 0: %v", members[0].FocusRank)
	}
}
