package agenda

import (
	"testing"

	"tableflip.dev/focusflow/pkg/task"
)

func focusTask(id string, rank int) *task.Task {
	r := rank
	return &task.Task{ID: id, Title: id, Status: task.StatusOpen, IsFocus: true, FocusRank: &r}
}

func estTask(id string, est int, status task.Status) *task.Task {
	t := &task.Task{ID: id, Title: id, Status: status, IsFocus: true}
	if est >= 0 {
		e := est
		t.EstimatedMinutes = &e
	}
	return t
}

func order(ts []*task.Task) []string {
	ids := make([]string, 0, len(ts))
	for _, t := range ts {
		ids = append(ids, t.ID)
	}
	return ids
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestComputeOrdersByRankThenID(t *testing.T) {
	unranked := &task.Task{ID: "z", Title: "z", IsFocus: true}
	outside := &task.Task{ID: "x", Title: "x"}
	tasks := []*task.Task{
		focusTask("b", 1),
		unranked,
		outside,
		focusTask("a", 1),
		focusTask("c", 0),
	}

	got := Compute(tasks)
	want := []string{"c", "a", "b", "z"}
	if !equal(order(got), want) {
		t.Fatalf("expected %v got %v", want, order(got))
	}

	// Idempotent under repeated calls with unchanged input.
	again := Compute(tasks)
	if !equal(order(got), order(again)) {
		t.Fatalf("compute not stable: %v vs %v", order(got), order(again))
	}
}

func TestInsertAtPlacesTaskAndRenumbers(t *testing.T) {
	ag := []*task.Task{focusTask("a", 0), focusTask("b", 1), focusTask("c", 2)}
	incoming := &task.Task{ID: "n", Title: "n"}

	updates := InsertAt(ag, incoming, 1)
	if len(updates) != 4 {
		t.Fatalf("expected 4 assignments, got %d", len(updates))
	}
	wantRanks := map[string]int{"a": 0, "n": 1, "b": 2, "c": 3}
	for _, u := range updates {
		if !u.Focus {
			t.Fatalf("insert must keep members in focus: %+v", u)
		}
		if wantRanks[u.ID] != u.Rank {
			t.Fatalf("expected rank %d for %s, got %d", wantRanks[u.ID], u.ID, u.Rank)
		}
	}
}

func TestInsertAtClampsIndex(t *testing.T) {
	ag := []*task.Task{focusTask("a", 0)}
	incoming := &task.Task{ID: "n"}

	updates := InsertAt(ag, incoming, 99)
	if updates[len(updates)-1].ID != "n" || updates[len(updates)-1].Rank != 1 {
		t.Fatalf("expected append at end, got %+v", updates)
	}

	updates = InsertAt(ag, incoming, -5)
	if updates[0].ID != "n" || updates[0].Rank != 0 {
		t.Fatalf("expected prepend at start, got %+v", updates)
	}
}

func TestReorderRoundTrip(t *testing.T) {
	ag := []*task.Task{focusTask("a", 0), focusTask("b", 1), focusTask("c", 2)}

	updates, changed := Reorder(ag, 0, 2)
	if !changed {
		t.Fatalf("expected a change")
	}
	ranks := map[string]int{}
	for _, u := range updates {
		ranks[u.ID] = u.Rank
	}
	if ranks["b"] != 0 || ranks["c"] != 1 || ranks["a"] != 2 {
		t.Fatalf("unexpected ranks after reorder: %v", ranks)
	}

	// Applying the inverse restores the original order.
	moved := []*task.Task{focusTask("b", 0), focusTask("c", 1), focusTask("a", 2)}
	updates, changed = Reorder(moved, 2, 0)
	if !changed {
		t.Fatalf("expected a change")
	}
	ranks = map[string]int{}
	for _, u := range updates {
		ranks[u.ID] = u.Rank
	}
	if ranks["a"] != 0 || ranks["b"] != 1 || ranks["c"] != 2 {
		t.Fatalf("inverse reorder did not restore order: %v", ranks)
	}
}

func TestReorderNoOps(t *testing.T) {
	ag := []*task.Task{focusTask("a", 0), focusTask("b", 1)}

	if _, changed := Reorder(ag, 1, 1); changed {
		t.Fatalf("from == to must be a no-op")
	}
	if _, changed := Reorder(ag, -1, 0); changed {
		t.Fatalf("negative index must be a no-op")
	}
	if _, changed := Reorder(ag, 0, 2); changed {
		t.Fatalf("out-of-range target must be a no-op")
	}
}

func TestRemoveClearsMembershipOnly(t *testing.T) {
	u := Remove(focusTask("a", 3))
	if u.Focus || u.ID != "a" {
		t.Fatalf("expected membership cleared for a, got %+v", u)
	}
}

func TestAggregate(t *testing.T) {
	actual := 15
	done := estTask("done", 20, task.StatusDone)
	done.ActualMinutes = &actual

	totals := Aggregate([]*task.Task{estTask("open", 30, task.StatusOpen), done})
	if totals.ReservedMinutes != 30 {
		t.Fatalf("expected reserved 30, got %d", totals.ReservedMinutes)
	}
	if totals.DoneMinutes != 15 {
		t.Fatalf("expected done 15, got %d", totals.DoneMinutes)
	}
}

func TestAggregateFallsBackToEstimate(t *testing.T) {
	totals := Aggregate([]*task.Task{estTask("done", 20, task.StatusDone), estTask("bare", -1, task.StatusDone)})
	if totals.DoneMinutes != 20 {
		t.Fatalf("expected done 20, got %d", totals.DoneMinutes)
	}
	if totals.ReservedMinutes != 0 {
		t.Fatalf("expected reserved 0, got %d", totals.ReservedMinutes)
	}
}

func TestSuggestNextPicksSmallestFitting(t *testing.T) {
	small := estTask("small", 5, task.StatusOpen)
	big := estTask("big", 30, task.StatusOpen)

	got := SuggestNext([]*task.Task{big, small}, 60, 50)
	if got == nil || got.ID != "small" {
		t.Fatalf("expected small, got %+v", got)
	}
}

func TestSuggestNextFallsBackToSmallestOverall(t *testing.T) {
	got := SuggestNext([]*task.Task{estTask("b", 30, task.StatusOpen), estTask("a", 25, task.StatusOpen)}, 60, 55)
	if got == nil || got.ID != "a" {
		t.Fatalf("expected fallback to smallest estimate, got %+v", got)
	}
}

func TestSuggestNextNoOpenMembers(t *testing.T) {
	if got := SuggestNext([]*task.Task{estTask("d", 10, task.StatusDone)}, 60, 0); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestSuggestNextMissingEstimateSortsLast(t *testing.T) {
	bare := estTask("bare", -1, task.StatusOpen)
	got := SuggestNext([]*task.Task{bare, estTask("z", 10, task.StatusOpen)}, 60, 0)
	if got == nil || got.ID != "z" {
		t.Fatalf("expected the estimated task, got %+v", got)
	}

	// Only unestimated members: still suggests something.
	got = SuggestNext([]*task.Task{bare}, 60, 0)
	if got == nil || got.ID != "bare" {
		t.Fatalf("expected bare, got %+v", got)
	}
}
