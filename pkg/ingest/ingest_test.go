package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/focusflow/pkg/ical"
)

const inviteBody = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
METHOD:REQUEST
BEGIN:VEVENT
UID:meet-42@example.com
SUMMARY:Design review
DTSTART:20260315T100000Z
DTEND:20260315T103000Z
END:VEVENT
END:VCALENDAR`

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func inlineInviteMessage() string {
	return crlf(`From: organizer@example.com
To: inbox@focusflow.example.com
Subject: Invitation: Design review
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="BOUNDARY"

--BOUNDARY
Content-Type: text/plain; charset="utf-8"

You have been invited to Design review.
--BOUNDARY
Content-Type: text/calendar; charset="utf-8"; method=REQUEST

` + inviteBody + `
--BOUNDARY--
`)
}

func attachmentInviteMessage() string {
	return crlf(`From: organizer@example.com
To: inbox@focusflow.example.com
Subject: Invitation
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="BOUNDARY"

--BOUNDARY
Content-Type: text/plain; charset="utf-8"

See attached.
--BOUNDARY
Content-Type: application/octet-stream
Content-Disposition: attachment; filename="invite.ics"

` + inviteBody + `
--BOUNDARY--
`)
}

func plainMessage() string {
	return crlf(`From: someone@example.com
To: inbox@focusflow.example.com
Subject: Just a note
Content-Type: text/plain; charset="utf-8"

No calendar here.
`)
}

func TestExtractCalendarInline(t *testing.T) {
	data, err := ExtractCalendar(strings.NewReader(inlineInviteMessage()))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if data == nil {
		t.Fatalf("expected calendar bytes")
	}
	if !strings.Contains(string(data), "SUMMARY:Design review") {
		t.Fatalf("wrong part extracted:\n%s", data)
	}
}

func TestExtractCalendarAttachment(t *testing.T) {
	data, err := ExtractCalendar(strings.NewReader(attachmentInviteMessage()))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if data == nil || !strings.Contains(string(data), "UID:meet-42@example.com") {
		t.Fatalf("attachment not extracted:\n%s", data)
	}
}

func TestExtractCalendarNone(t *testing.T) {
	data, err := ExtractCalendar(strings.NewReader(plainMessage()))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if data != nil {
		t.Fatalf("expected no calendar data, got:\n%s", data)
	}
}

type captureSink struct {
	invites []*ical.Invite
	err     error
}

func (c *captureSink) HandleInvite(_ context.Context, inv *ical.Invite) error {
	c.invites = append(c.invites, inv)
	return c.err
}

func newTestSession(t *testing.T, sink EventSink) *session {
	t.Helper()
	srv, err := NewServer(":0", `^inbox@`, sink)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return &session{server: srv}
}

func TestSessionFilesInvite(t *testing.T) {
	sink := &captureSink{}
	s := newTestSession(t, sink)

	if err := s.Rcpt("INBOX@focusflow.example.com", nil); err != nil {
		t.Fatalf("rcpt: %v", err)
	}
	if err := s.Data(strings.NewReader(inlineInviteMessage())); err != nil {
		t.Fatalf("data: %v", err)
	}

	if len(sink.invites) != 1 {
		t.Fatalf("expected 1 invite, got %d", len(sink.invites))
	}
	inv := sink.invites[0]
	if inv.Summary != "Design review" || inv.UID != "meet-42@example.com" {
		t.Fatalf("invite: %+v", inv)
	}
	if inv.DurationMinutes() != 30 {
		t.Fatalf("duration: %d", inv.DurationMinutes())
	}
}

func TestSessionIgnoresOtherRecipients(t *testing.T) {
	sink := &captureSink{}
	s := newTestSession(t, sink)

	if err := s.Rcpt("other@focusflow.example.com", nil); err != nil {
		t.Fatalf("rcpt: %v", err)
	}
	if err := s.Data(strings.NewReader(inlineInviteMessage())); err != nil {
		t.Fatalf("data should accept and drop: %v", err)
	}
	if len(sink.invites) != 0 {
		t.Fatalf("sink should not have been called")
	}
}

func TestSessionAcceptsPlainMail(t *testing.T) {
	sink := &captureSink{}
	s := newTestSession(t, sink)

	if err := s.Rcpt("inbox@focusflow.example.com", nil); err != nil {
		t.Fatalf("rcpt: %v", err)
	}
	if err := s.Data(strings.NewReader(plainMessage())); err != nil {
		t.Fatalf("plain mail should be accepted: %v", err)
	}
	if len(sink.invites) != 0 {
		t.Fatalf("sink should not have been called")
	}
}

func TestSessionRetriesOnSinkFailure(t *testing.T) {
	sink := &captureSink{err: errors.New("backend down")}
	s := newTestSession(t, sink)

	if err := s.Rcpt("inbox@focusflow.example.com", nil); err != nil {
		t.Fatalf("rcpt: %v", err)
	}
	err := s.Data(strings.NewReader(inlineInviteMessage()))
	if err == nil {
		t.Fatalf("expected a transient SMTP error")
	}
	if err != errDeliver {
		t.Fatalf("expected the 451 reply, got %v", err)
	}
}

func TestSessionResetClearsMatch(t *testing.T) {
	sink := &captureSink{}
	s := newTestSession(t, sink)

	if err := s.Rcpt("inbox@focusflow.example.com", nil); err != nil {
		t.Fatalf("rcpt: %v", err)
	}
	s.Reset()
	if err := s.Data(strings.NewReader(inlineInviteMessage())); err != nil {
		t.Fatalf("data: %v", err)
	}
	if len(sink.invites) != 0 {
		t.Fatalf("reset should clear the recipient match")
	}
}
