// Package agenda derives the ordered focus agenda from the task set and
// computes the rank assignments that keep it consistent.
package agenda

import (
	"sort"

	"tableflip.dev/focusflow/pkg/task"
)

// maxRank sorts tasks without an explicit rank after every ranked task.
const maxRank = int(^uint(0) >> 1)

// Update is a single per-task membership/rank assignment to persist.
type Update struct {
	ID    string
	Focus bool
	Rank  int
}

// Compute filters the focus members out of tasks and orders them by
// (focus_rank ascending, id ascending). Missing ranks sort last. Pure and
// idempotent; the input slice is not modified.
func Compute(tasks []*task.Task) []*task.Task {
	members := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil && t.IsFocus {
			members = append(members, t)
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		li, lj := rankOf(members[i]), rankOf(members[j])
		if li != lj {
			return li < lj
		}
		return members[i].ID < members[j].ID
	})
	return members
}

func rankOf(t *task.Task) int {
	if t.FocusRank == nil {
		return maxRank
	}
	return *t.FocusRank
}

// InsertAt splices t into the agenda at index (clamped to [0, len]) and
// returns the full set of rank assignments, one per member, with ranks
// renumbered to consecutive 0-based positions. If t is already a member the
// caller must remove it first; InsertAt does not deduplicate.
func InsertAt(agenda []*task.Task, t *task.Task, index int) []Update {
	if index < 0 {
		index = 0
	}
	if index > len(agenda) {
		index = len(agenda)
	}

	next := make([]*task.Task, 0, len(agenda)+1)
	next = append(next, agenda[:index]...)
	next = append(next, t)
	next = append(next, agenda[index:]...)

	return renumber(next)
}

// Reorder moves the member at from to position to and renumbers the agenda
// to consecutive ranks. Out-of-range indices or from == to are a no-op,
// signalled by the false return.
func Reorder(agenda []*task.Task, from, to int) ([]Update, bool) {
	if from == to {
		return nil, false
	}
	if from < 0 || from >= len(agenda) || to < 0 || to >= len(agenda) {
		return nil, false
	}

	next := make([]*task.Task, 0, len(agenda))
	next = append(next, agenda...)
	moved := next[from]
	next = append(next[:from], next[from+1:]...)

	tail := make([]*task.Task, 0, len(agenda))
	tail = append(tail, next[:to]...)
	tail = append(tail, moved)
	tail = append(tail, next[to:]...)

	return renumber(tail), true
}

// Remove clears membership for t. Remaining members are not renumbered;
// ordering is defined by comparison, not contiguity, and the next InsertAt
// or Reorder normalizes the ranks.
func Remove(t *task.Task) Update {
	return Update{ID: t.ID, Focus: false}
}

func renumber(ordered []*task.Task) []Update {
	updates := make([]Update, 0, len(ordered))
	for i, t := range ordered {
		updates = append(updates, Update{ID: t.ID, Focus: true, Rank: i})
	}
	return updates
}

// Totals are the agenda's aggregate time budgets in minutes.
type Totals struct {
	ReservedMinutes int
	DoneMinutes     int
}

// Aggregate sums the reserved estimate over members still to do and the
// logged (or estimated) time over completed members.
func Aggregate(agenda []*task.Task) Totals {
	var totals Totals
	for _, t := range agenda {
		if t.Status == task.StatusDone {
			if t.ActualMinutes != nil {
				totals.DoneMinutes += *t.ActualMinutes
			} else {
				totals.DoneMinutes += t.EstimateOr(0)
			}
			continue
		}
		totals.ReservedMinutes += t.EstimateOr(0)
	}
	return totals
}

// SuggestNext picks the open member whose estimate best fits the remaining
// daily budget: the smallest estimate that still fits, falling back to the
// smallest estimate overall. Members without an estimate sort last. Returns
// nil when the agenda has no open members.
func SuggestNext(agenda []*task.Task, dailyTargetMinutes, doneMinutes int) *task.Task {
	open := make([]*task.Task, 0, len(agenda))
	for _, t := range agenda {
		if t.Status == task.StatusOpen {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return nil
	}

	sort.SliceStable(open, func(i, j int) bool {
		li, lj := estimateOf(open[i]), estimateOf(open[j])
		if li != lj {
			return li < lj
		}
		return open[i].ID < open[j].ID
	})

	remaining := dailyTargetMinutes - doneMinutes
	if remaining < 0 {
		remaining = 0
	}
	for _, t := range open {
		if t.HasEstimate() && *t.EstimatedMinutes <= remaining {
			return t
		}
	}
	return open[0]
}

func estimateOf(t *task.Task) int {
	if t.EstimatedMinutes == nil {
		return maxRank
	}
	return *t.EstimatedMinutes
}
