package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tableflip.dev/focusflow/pkg/api"
	"tableflip.dev/focusflow/pkg/ical"
	"tableflip.dev/focusflow/pkg/task"
)

// ServiceSink files invites directly through the in-process service. Used
// when the SMTP listener runs inside the API server.
type ServiceSink struct {
	Service  *api.Service
	Category string
}

func (s *ServiceSink) HandleInvite(ctx context.Context, inv *ical.Invite) error {
	_, err := s.Service.IngestInvite(ctx, inv, s.Category)
	return err
}

// HTTPSink posts invites to a remote API server's calendar inbox. Used when
// the SMTP listener runs as its own process.
type HTTPSink struct {
	BaseURL  string
	Category string
	Client   *http.Client
}

type inboxPayload struct {
	UID          string `json:"uid"`
	Summary      string `json:"summary"`
	Description  string `json:"description,omitempty"`
	Start        string `json:"start,omitempty"`
	End          string `json:"end,omitempty"`
	Attendees    string `json:"attendees,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
}

func (s *HTTPSink) HandleInvite(ctx context.Context, inv *ical.Invite) error {
	payload := inboxPayload{
		UID:          inv.UID,
		Summary:      inv.Summary,
		Description:  inv.Description,
		Attendees:    inv.Attendees,
		CategoryName: s.Category,
	}
	if inv.Start != nil {
		payload.Start = task.FormatTime(*inv.Start)
	}
	if inv.End != nil {
		payload.End = task.FormatTime(*inv.End)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ingest: encode invite: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.BaseURL+"/api/inbox/calendar", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ingest: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ingest: post invite: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("ingest: backend replied %s", resp.Status)
	}
	return nil
}
