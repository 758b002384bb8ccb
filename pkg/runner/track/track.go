package track

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/focusflow/pkg/printers"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
	"tableflip.dev/focusflow/pkg/timer"
)

// Track runs an interactive focus session in the terminal: a countdown that
// credits the elapsed minutes back to the task when it ends.
type Track struct {
	ID string

	Persistence store.Persistence
}

func (r *Track) Do(ctx context.Context) error {
	t, err := r.Persistence.GetTask(ctx, r.ID)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	expired := make(chan timer.Expiry, 1)
	tm := timer.New(func(e timer.Expiry) { expired <- e }, timer.WithoutTicker())
	if err := tm.Start(t); err != nil {
		return err
	}

	b := color.New(color.Bold)
	_, _ = b.Printf("timing %q, ctrl-c to stop\n", t.Title)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Print("\r\n")
			res, ok := tm.Stop()
			if !ok {
				return nil
			}
			return r.credit(context.Background(), res)
		case e := <-expired:
			fmt.Print("\a\r\n")
			_, _ = b.Printf("time's up on %q after %s\n", e.Title, clock(e.ElapsedSeconds))
			return nil
		case <-ticker.C:
			snap := tm.Tick()
			if snap.State != timer.Running {
				// Expiry fired; the expired case handles the message.
				continue
			}
			fmt.Printf("\r%s / %s ", clock(snap.ElapsedSeconds), clock(snap.TargetSeconds))
		}
	}
}

// credit logs the stopped run's minutes against the task.
func (r *Track) credit(ctx context.Context, res timer.Result) error {
	t, err := r.Persistence.GetTask(ctx, res.TaskID)
	if err != nil {
		return err
	}
	total := t.ActualOr(0) + res.CreditMinutes
	updated, err := r.Persistence.UpdateTask(ctx, res.TaskID, task.Patch{ActualMinutes: &total})
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.Title(fmt.Sprintf("logged %dm", res.CreditMinutes))
	pp.Tasks(updated)
	return nil
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
