package gcal

import (
	"testing"
	"time"

	"tableflip.dev/focusflow/pkg/ical"
	"tableflip.dev/focusflow/pkg/task"
)

func TestEventForSlot(t *testing.T) {
	tk := task.New("Write proposal")
	tk.Description = "First draft"
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	ev := eventForSlot(ical.Slot{Task: tk, Start: start, End: end})

	if ev.Summary != "Write proposal" || ev.Description != "First draft" {
		t.Fatalf("event fields: %+v", ev)
	}
	if ev.Start.DateTime != "2026-04-01T09:00:00Z" {
		t.Fatalf("start: %s", ev.Start.DateTime)
	}
	if ev.End.DateTime != "2026-04-01T09:45:00Z" {
		t.Fatalf("end: %s", ev.End.DateTime)
	}
	if got := ev.ExtendedProperties.Private[taskIDProperty]; got != tk.ID {
		t.Fatalf("task id property: %q", got)
	}
}
