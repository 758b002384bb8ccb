package focus

import (
	"context"

	"tableflip.dev/focusflow/pkg/agenda"
	"tableflip.dev/focusflow/pkg/printers"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

type Focus struct {
	ID     string
	Index  int
	Remove bool

	From, To int
	Reorder  bool

	ShowID        bool
	TargetMinutes int

	Persistence store.Persistence
}

func (f *Focus) Do(ctx context.Context) error {
	switch {
	case f.Reorder:
		members := agenda.Compute(f.Persistence.ListTasks(ctx))
		updates, changed := agenda.Reorder(members, f.From, f.To)
		if changed {
			if err := agenda.Apply(ctx, f.Persistence, updates); err != nil {
				return err
			}
		}
	case f.Remove:
		t, err := f.Persistence.GetTask(ctx, f.ID)
		if err != nil {
			return err
		}
		if err := agenda.Apply(ctx, f.Persistence, []agenda.Update{agenda.Remove(t)}); err != nil {
			return err
		}
	default:
		t, err := f.Persistence.GetTask(ctx, f.ID)
		if err != nil {
			return err
		}
		members := agenda.Compute(f.Persistence.ListTasks(ctx))
		others := make([]*task.Task, 0, len(members))
		for _, m := range members {
			if m.ID != t.ID {
				others = append(others, m)
			}
		}
		if err := agenda.Apply(ctx, f.Persistence, agenda.InsertAt(others, t, f.Index)); err != nil {
			return err
		}
	}

	members := agenda.Compute(f.Persistence.ListTasks(ctx))
	totals := agenda.Aggregate(members)
	suggested := agenda.SuggestNext(members, f.TargetMinutes, totals.DoneMinutes)

	pp := printers.PrettyPrint{ShowID: f.ShowID}
	pp.Title("agenda")
	pp.Agenda(members, totals, suggested, f.TargetMinutes)
	return nil
}
