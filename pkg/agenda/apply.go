package agenda

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

// Apply persists a batch of rank assignments, one store update per task,
// and waits for all of them. There is no rollback: a partial failure leaves
// the store mixed and the error is surfaced so the caller can reload.
func Apply(ctx context.Context, p store.Persistence, updates []Update) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, u := range updates {
		u := u
		g.Go(func() error {
			patch := task.Patch{}
			focus := u.Focus
			patch.IsFocus = &focus
			if u.Focus {
				rank := u.Rank
				patch.FocusRank = &rank
			} else {
				patch.ClearFocusRank = true
			}
			if _, err := p.UpdateTask(ctx, u.ID, patch); err != nil {
				return fmt.Errorf("agenda: update %s: %w", u.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}
