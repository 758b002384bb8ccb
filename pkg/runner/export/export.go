package export

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/focusflow/pkg/agenda"
	"tableflip.dev/focusflow/pkg/gcal"
	"tableflip.dev/focusflow/pkg/ical"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

// Export renders the open agenda as calendar events: an .ics document on
// stdout by default, or pushed straight into a Google Calendar.
type Export struct {
	Google   bool
	Calendar string

	Lead time.Duration
	Gap  time.Duration

	Persistence store.Persistence
}

func (e *Export) Do(ctx context.Context) error {
	members := agenda.Compute(e.Persistence.ListTasks(ctx))
	open := make([]*task.Task, 0, len(members))
	for _, t := range members {
		if t.Status != task.StatusDone {
			open = append(open, t)
		}
	}

	lead := e.Lead
	if lead == 0 {
		lead = ical.DefaultLeadMinutes * time.Minute
	}
	gap := e.Gap
	if gap == 0 {
		gap = ical.DefaultGapMinutes * time.Minute
	}

	if e.Google {
		client, err := gcal.NewClient(ctx, e.Calendar)
		if err != nil {
			return err
		}
		slots := ical.Plan(open, time.Now().Add(lead), gap)
		return client.Push(ctx, slots)
	}

	fmt.Print(ical.Export(open, time.Now(), lead, gap))
	return nil
}
