package ical

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ErrNoEvent is returned when invite data contains no VEVENT.
var ErrNoEvent = errors.New("ical: no event found")

// Invite is the event carried by a calendar invitation.
type Invite struct {
	UID         string
	Summary     string
	Description string
	Start       *time.Time
	End         *time.Time
	Attendees   string
}

// DurationMinutes returns the event length in whole minutes, or 0 when the
// invite has no usable time range.
func (i *Invite) DurationMinutes() int {
	if i.Start == nil || i.End == nil {
		return 0
	}
	d := i.End.Sub(*i.Start)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// ParseInvite reads the first VEVENT out of iCalendar bytes.
func ParseInvite(data []byte) (*Invite, error) {
	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ical: parse calendar: %w", err)
	}

	events := cal.Events()
	if len(events) == 0 {
		return nil, ErrNoEvent
	}
	ev := events[0]

	inv := &Invite{
		UID:     ev.Id(),
		Summary: propertyValue(ev, ics.ComponentPropertySummary),
	}
	if inv.Summary == "" {
		inv.Summary = "Calendar event"
	}
	inv.Description = propertyValue(ev, ics.ComponentPropertyDescription)

	if start, err := ev.GetStartAt(); err == nil {
		inv.Start = &start
	}
	if end, err := ev.GetEndAt(); err == nil {
		inv.End = &end
	}

	attendees := make([]string, 0, 2)
	for _, a := range ev.Attendees() {
		if email := a.Email(); email != "" {
			attendees = append(attendees, email)
		}
	}
	inv.Attendees = strings.Join(attendees, ", ")

	return inv, nil
}

func propertyValue(ev *ics.VEvent, prop ics.ComponentProperty) string {
	p := ev.GetProperty(prop)
	if p == nil {
		return ""
	}
	return p.Value
}
