package get

import (
	"context"
	"strings"

	"tableflip.dev/focusflow/pkg/agenda"
	"tableflip.dev/focusflow/pkg/printers"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

type Get struct {
	ShowID bool

	Status     string
	Category   string
	Priority   string
	Search     string
	FocusOnly  bool
	Categories bool

	TargetMinutes int

	Persistence store.Persistence
}

func (g *Get) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{ShowID: g.ShowID}

	if g.Categories {
		pp.Title("categories")
		pp.Categories(g.Persistence.ListCategories(ctx)...)
		return nil
	}

	var status *task.Status
	if g.Status != "" {
		st, err := task.ParseStatus(g.Status)
		if err != nil {
			return err
		}
		status = &st
	}
	var priority *task.Priority
	if g.Priority != "" {
		pr, err := task.ParsePriority(g.Priority)
		if err != nil {
			return err
		}
		priority = &pr
	}

	all := g.Persistence.ListTasks(ctx)

	if g.FocusOnly {
		members := agenda.Compute(all)
		totals := agenda.Aggregate(members)
		suggested := agenda.SuggestNext(members, g.TargetMinutes, totals.DoneMinutes)
		pp.Title("agenda")
		pp.Agenda(members, totals, suggested, g.TargetMinutes)
		return nil
	}

	matched := make([]*task.Task, 0, len(all))
	for _, t := range all {
		if status != nil && t.Status != *status {
			continue
		}
		if priority != nil && t.Priority != *priority {
			continue
		}
		if g.Category != "" && !strings.EqualFold(t.Category, g.Category) {
			continue
		}
		if g.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(g.Search)) {
			continue
		}
		matched = append(matched, t)
	}

	pp.TitleWithCount("tasks", len(matched))
	pp.Tasks(matched...)
	return nil
}
