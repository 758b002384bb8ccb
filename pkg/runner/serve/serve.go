package serve

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/focusflow/pkg/api"
	"tableflip.dev/focusflow/pkg/ingest"
	"tableflip.dev/focusflow/pkg/rollover"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/timer"
)

// Serve runs the long-lived pieces together: the REST API, the calendar
// invite SMTP listener, and the scheduled agenda rollover.
type Serve struct {
	ListenAddr string

	SMTPAddr      string
	SMTPRecipient string

	RolloverSchedule string

	DailyTargetMinutes int

	Persistence store.Persistence
}

func (s *Serve) Do(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tm := timer.New(func(e timer.Expiry) {
		log.Printf("[timer] %q reached its %ds target", e.Title, e.TargetSeconds)
	})

	svc := api.NewService(s.Persistence, tm)
	if s.DailyTargetMinutes > 0 {
		svc.DailyTargetMinutes = s.DailyTargetMinutes
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return api.NewServer(svc).ListenAndServe(ctx, s.ListenAddr)
	})

	if s.SMTPAddr != "" {
		smtpSrv, err := ingest.NewServer(s.SMTPAddr, s.SMTPRecipient, &ingest.ServiceSink{Service: svc})
		if err != nil {
			return err
		}
		group.Go(func() error {
			return smtpSrv.ListenAndServe(ctx)
		})
	}

	if s.RolloverSchedule != "" {
		sweeper := rollover.NewService(s.Persistence, s.RolloverSchedule)
		if err := sweeper.Start(ctx); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	return group.Wait()
}
