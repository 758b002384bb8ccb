// Package ingest accepts calendar invites over SMTP and files them as tasks.
// It is the mail-facing edge: messages to the configured inbox address are
// scanned for an iCalendar part, parsed, and handed to a sink; everything
// else is accepted and dropped.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-smtp"

	"tableflip.dev/focusflow/pkg/ical"
)

// EventSink receives the parsed invite from an accepted message.
type EventSink interface {
	HandleInvite(ctx context.Context, inv *ical.Invite) error
}

// errDeliver maps delivery failures to a transient SMTP reply so the sender
// retries instead of bouncing the invite.
var errDeliver = &smtp.SMTPError{
	Code:         451,
	EnhancedCode: smtp.EnhancedCode{4, 5, 1},
	Message:      "failed to file invite, try again later",
}

// Server is the SMTP front for invite ingestion.
type Server struct {
	addr      string
	recipient *regexp.Regexp
	sink      EventSink
}

// NewServer builds the ingestion server. recipientPattern is an anchored
// regular expression; messages whose every recipient misses it are accepted
// and discarded.
func NewServer(addr, recipientPattern string, sink EventSink) (*Server, error) {
	re, err := regexp.Compile(recipientPattern)
	if err != nil {
		return nil, fmt.Errorf("ingest: recipient pattern: %w", err)
	}
	return &Server{addr: addr, recipient: re, sink: sink}, nil
}

// ListenAndServe runs the SMTP listener until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := smtp.NewServer(s)
	srv.Addr = s.addr
	srv.Domain = "focusflow"
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.MaxMessageBytes = 1 << 20
	srv.MaxRecipients = 10
	srv.AllowInsecureAuth = true

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[ingest] listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		if err := srv.Close(); err != nil {
			return fmt.Errorf("ingest: close: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ingest: serve: %w", err)
		}
		return nil
	}
}

// NewSession implements smtp.Backend.
func (s *Server) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{server: s}, nil
}

type session struct {
	server  *Server
	matched bool
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	log.Printf("[ingest] mail from %s", from)
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	if s.server.recipient.MatchString(strings.ToLower(to)) {
		s.matched = true
	}
	return nil
}

func (s *session) Data(r io.Reader) error {
	if !s.matched {
		// Not for the inbox address; accept and drop.
		if _, err := io.Copy(io.Discard, r); err != nil {
			return err
		}
		return nil
	}

	data, err := ExtractCalendar(r)
	if err != nil {
		log.Printf("[ingest] extract: %v", err)
		return errDeliver
	}
	if data == nil {
		log.Printf("[ingest] no calendar part, dropping message")
		return nil
	}

	inv, err := ical.ParseInvite(data)
	if err != nil {
		log.Printf("[ingest] parse invite: %v", err)
		return errDeliver
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.server.sink.HandleInvite(ctx, inv); err != nil {
		log.Printf("[ingest] deliver %q: %v", inv.Summary, err)
		return errDeliver
	}

	log.Printf("[ingest] filed invite %q", inv.Summary)
	return nil
}

func (s *session) Reset() {
	s.matched = false
}

func (s *session) Logout() error {
	return nil
}

// ExtractCalendar pulls iCalendar bytes out of a MIME message: either an
// inline text/calendar part or an attachment with an .ics filename. A nil
// result with a nil error means the message carries no calendar data.
func ExtractCalendar(r io.Reader) ([]byte, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: read message: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read part: %w", err)
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			ct, _, err := h.ContentType()
			if err != nil {
				continue
			}
			if ct == "text/calendar" {
				return io.ReadAll(part.Body)
			}
		case *mail.AttachmentHeader:
			filename, err := h.Filename()
			if err != nil {
				continue
			}
			if strings.HasSuffix(strings.ToLower(filename), ".ics") {
				return io.ReadAll(part.Body)
			}
		}
	}
}
