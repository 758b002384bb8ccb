package store

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/focusflow/pkg/task"
)

type testConfig struct {
	path string
}

func (c *testConfig) BasePath() string { return c.path }

func load(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(&testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return p
}

func TestTaskRoundTrip(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	est := 45
	tk := task.New("draft launch email")
	tk.EstimatedMinutes = &est
	tk.Category = "Work"

	if err := p.CreateTask(tk); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := p.GetTask(ctx, tk.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != tk.Title || got.EstimateOr(0) != 45 || got.Category != "Work" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	all := p.ListTasks(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 task, got %d", len(all))
	}
}

func TestUpdateTaskPatch(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	tk := task.New("review pull request")
	if err := p.CreateTask(tk); err != nil {
		t.Fatalf("create: %v", err)
	}

	focus := true
	rank := 0
	updated, err := p.UpdateTask(ctx, tk.ID, task.Patch{IsFocus: &focus, FocusRank: &rank})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsFocus || updated.FocusRank == nil || *updated.FocusRank != 0 {
		t.Fatalf("patch not persisted: %+v", updated)
	}

	got, err := p.GetTask(ctx, tk.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsFocus {
		t.Fatalf("expected focus persisted")
	}
}

func TestGetTaskNotFound(t *testing.T) {
	p := load(t)
	if _, err := p.GetTask(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTasksOrdersFocusFirst(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	plain := task.New("backlog item")
	if err := p.CreateTask(plain); err != nil {
		t.Fatalf("create: %v", err)
	}

	second := task.New("second on agenda")
	r1 := 1
	second.IsFocus = true
	second.FocusRank = &r1
	if err := p.CreateTask(second); err != nil {
		t.Fatalf("create: %v", err)
	}

	first := task.New("first on agenda")
	r0 := 0
	first.IsFocus = true
	first.FocusRank = &r0
	if err := p.CreateTask(first); err != nil {
		t.Fatalf("create: %v", err)
	}

	all := p.ListTasks(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(all))
	}
	if all[0].ID != first.ID || all[1].ID != second.ID || all[2].ID != plain.ID {
		t.Fatalf("unexpected order: %s, %s, %s", all[0].Title, all[1].Title, all[2].Title)
	}
}

func TestEnsureCategoryIdempotent(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	// Work and Personal are seeded on load.
	before := len(p.ListCategories(ctx))

	c1, err := p.EnsureCategory("Errands")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	c2, err := p.EnsureCategory("errands")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if c1.ID != c2.ID {
		t.Fatalf("expected same category, got %s and %s", c1.ID, c2.ID)
	}
	if got := len(p.ListCategories(ctx)); got != before+1 {
		t.Fatalf("expected %d categories, got %d", before+1, got)
	}
}

func TestUpdateCategoryRejectsEmptyName(t *testing.T) {
	p := load(t)
	c, err := p.EnsureCategory("Health")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	empty := "  "
	if _, err := p.UpdateCategory(context.Background(), c.ID, &empty, nil); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
}

func TestDeleteTask(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	tk := task.New("temporary")
	if err := p.CreateTask(tk); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := p.DeleteTask(ctx, tk.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := p.GetTask(ctx, tk.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
