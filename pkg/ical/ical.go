// Package ical turns the agenda into a calendar: a pure scheduling plan of
// non-overlapping slots, rendered as an iCalendar document.
package ical

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"tableflip.dev/focusflow/pkg/task"
)

const (
	// DefaultLeadMinutes is how far from now the first slot starts.
	DefaultLeadMinutes = 15
	// DefaultGapMinutes is the buffer between consecutive slots.
	DefaultGapMinutes = 10

	productID = "-//focusflow//agenda//EN"
)

// Slot is one scheduled block of the plan.
type Slot struct {
	Task  *task.Task
	Start time.Time
	End   time.Time
}

// Plan lays tasks out sequentially from start, each occupying its estimate
// and separated by gap. Tasks without an estimate are skipped entirely.
// Output order matches input order; the cursor only moves forward.
func Plan(tasks []*task.Task, start time.Time, gap time.Duration) []Slot {
	slots := make([]Slot, 0, len(tasks))
	cursor := start
	for _, t := range tasks {
		if t == nil || !t.HasEstimate() {
			continue
		}
		end := cursor.Add(time.Duration(*t.EstimatedMinutes) * time.Minute)
		slots = append(slots, Slot{Task: t, Start: cursor, End: end})
		cursor = end.Add(gap)
	}
	return slots
}

// Document renders the plan as an iCalendar document with one VEVENT per
// slot. Deterministic given its inputs except for the generated UIDs.
func Document(slots []Slot, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, s := range slots {
		ev := cal.AddEvent(uuid.NewString() + "@focusflow")
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(s.Start.UTC())
		ev.SetEndAt(s.End.UTC())
		ev.SetSummary(s.Task.Title)
		if s.Task.Description != "" {
			ev.SetDescription(s.Task.Description)
		}
	}

	return cal.Serialize()
}

// Export is the one-call form: plan the tasks with the default lead and gap
// and render the document.
func Export(tasks []*task.Task, now time.Time, lead, gap time.Duration) string {
	return Document(Plan(tasks, now.Add(lead), gap), now)
}
