package complete

import (
	"context"

	"tableflip.dev/focusflow/pkg/printers"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

type Complete struct {
	ID            string
	ActualMinutes *int

	ShowID      bool
	Persistence store.Persistence
}

func (c *Complete) Do(ctx context.Context) error {
	done := task.StatusDone
	patch := task.Patch{Status: &done}
	if c.ActualMinutes != nil {
		patch.ActualMinutes = c.ActualMinutes
	}

	t, err := c.Persistence.UpdateTask(ctx, c.ID, patch)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: c.ShowID}
	pp.Title(t.Title)
	pp.Tasks(t)
	return nil
}
