package gcal

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/calendar/v3"

	"tableflip.dev/focusflow/pkg/ical"
)

// taskIDProperty tags pushed events with the task they came from so a later
// push updates in place instead of duplicating.
const taskIDProperty = "focusflow_task_id"

// Client pushes agenda slots into one calendar.
type Client struct {
	srv        *calendar.Service
	calendarID string
}

// NewClient authenticates and resolves calendarName to its ID. The primary
// calendar is used when the name is empty.
func NewClient(ctx context.Context, calendarName string) (*Client, error) {
	srv, err := NewService(ctx)
	if err != nil {
		return nil, err
	}

	calendarID := "primary"
	if calendarName != "" {
		list, err := srv.CalendarList.List().Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("gcal: list calendars: %w", err)
		}
		calendarID = ""
		for _, item := range list.Items {
			if item.Summary == calendarName {
				calendarID = item.Id
				break
			}
		}
		if calendarID == "" {
			return nil, fmt.Errorf("gcal: calendar %q not found", calendarName)
		}
	}

	return &Client{srv: srv, calendarID: calendarID}, nil
}

// Push upserts one event per slot. Existing events for the same task are
// updated, everything else is inserted.
func (c *Client) Push(ctx context.Context, slots []ical.Slot) error {
	for _, slot := range slots {
		event := eventForSlot(slot)

		existing, err := c.findByTaskID(ctx, slot.Task.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			if _, err := c.srv.Events.Update(c.calendarID, existing.Id, event).Context(ctx).Do(); err != nil {
				return fmt.Errorf("gcal: update event for %q: %w", slot.Task.Title, err)
			}
			log.Printf("[gcal] updated %q", slot.Task.Title)
			continue
		}
		if _, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do(); err != nil {
			return fmt.Errorf("gcal: insert event for %q: %w", slot.Task.Title, err)
		}
		log.Printf("[gcal] created %q", slot.Task.Title)
	}
	return nil
}

func (c *Client) findByTaskID(ctx context.Context, taskID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", taskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gcal: search events: %w", err)
	}
	if len(events.Items) == 0 {
		return nil, nil
	}
	return events.Items[0], nil
}

// eventForSlot converts a planned slot into the calendar representation.
func eventForSlot(slot ical.Slot) *calendar.Event {
	return &calendar.Event{
		Summary:     slot.Task.Title,
		Description: slot.Task.Description,
		Start:       &calendar.EventDateTime{DateTime: slot.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: slot.End.Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{taskIDProperty: slot.Task.ID},
		},
	}
}
