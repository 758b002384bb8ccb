// Package rollover runs the daily agenda sweep: completed tasks fall off the
// focus list on a schedule and the survivors are renumbered, so each morning
// starts from a clean agenda.
package rollover

import (
	"context"
	"fmt"
	"log"

	rcron "github.com/robfig/cron/v3"

	"tableflip.dev/focusflow/pkg/agenda"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

// DefaultSchedule sweeps at four in the morning, local time.
const DefaultSchedule = "0 4 * * *"

// Sweep computes the updates for one rollover pass: done agenda members are
// removed, the rest keep their order under fresh ranks.
func Sweep(tasks []*task.Task) []agenda.Update {
	members := agenda.Compute(tasks)

	updates := make([]agenda.Update, 0, len(members))
	rank := 0
	for _, t := range members {
		if t.Status == task.StatusDone {
			updates = append(updates, agenda.Remove(t))
			continue
		}
		updates = append(updates, agenda.Update{ID: t.ID, Focus: true, Rank: rank})
		rank++
	}
	return updates
}

// Service schedules the sweep against a persistence.
type Service struct {
	persistence store.Persistence
	schedule    string
	cron        *rcron.Cron
}

// NewService builds the rollover service. An empty schedule falls back to
// DefaultSchedule.
func NewService(p store.Persistence, schedule string) *Service {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Service{persistence: p, schedule: schedule}
}

// Start registers the sweep and begins the scheduler. The service stops when
// ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.cron = rcron.New()
	if _, err := s.cron.AddFunc(s.schedule, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("rollover: register schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	log.Printf("[rollover] scheduled %q", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the scheduler without waiting for a running sweep.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunOnce executes a single sweep immediately.
func (s *Service) RunOnce(ctx context.Context) error {
	updates := Sweep(s.persistence.ListTasks(ctx))
	if len(updates) == 0 {
		return nil
	}
	if err := agenda.Apply(ctx, s.persistence, updates); err != nil {
		return fmt.Errorf("rollover: %w", err)
	}
	return nil
}

func (s *Service) runOnce(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil {
		log.Printf("[rollover] sweep: %v", err)
		return
	}
	log.Printf("[rollover] sweep complete")
}
