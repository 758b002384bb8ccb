package agenda

import (
	"context"
	"testing"

	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

type dirConfig string

func (d dirConfig) BasePath() string { return string(d) }

func TestApplyPersistsBatch(t *testing.T) {
	p, err := store.Load(dirConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()

	a := task.New("first")
	b := task.New("second")
	for _, tk := range []*task.Task{a, b} {
		if err := p.CreateTask(tk); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	updates := InsertAt(nil, a, 0)
	if err := Apply(ctx, p, updates); err != nil {
		t.Fatalf("apply: %v", err)
	}
	updates = InsertAt(Compute(p.ListTasks(ctx)), b, 0)
	if err := Apply(ctx, p, updates); err != nil {
		t.Fatalf("apply: %v", err)
	}

	ag := Compute(p.ListTasks(ctx))
	if len(ag) != 2 || ag[0].ID != b.ID || ag[1].ID != a.ID {
		t.Fatalf("unexpected agenda after apply: %v", order(ag))
	}

	if err := Apply(ctx, p, []Update{Remove(ag[0])}); err != nil {
		t.Fatalf("apply remove: %v", err)
	}
	ag = Compute(p.ListTasks(ctx))
	if len(ag) != 1 || ag[0].ID != a.ID {
		t.Fatalf("expected only %s on agenda, got %v", a.ID, order(ag))
	}

	got, err := p.GetTask(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsFocus || got.FocusRank != nil {
		t.Fatalf("remove must clear membership and rank: %+v", got)
	}
}
