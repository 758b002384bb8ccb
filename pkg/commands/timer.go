package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/runner/track"
	"tableflip.dev/focusflow/pkg/store"
)

func addTimer(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "timer <id>",
		Short: "Run a focus session on a task",
		Long: `Start a countdown sized to the task's estimate (or the default pomodoro
length) and credit the elapsed minutes back when you stop it.`,
		Example: `
focusflow timer 171dff69-f8b9-4dca-9d0a-0123456789ab
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}

			t := track.Track{
				ID:          args[0],
				Persistence: p,
			}
			return t.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
