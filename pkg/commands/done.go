package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/commands/options"
	"tableflip.dev/focusflow/pkg/runner/complete"
	"tableflip.dev/focusflow/pkg/store"
)

func addDone(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	minutes := 0

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as done",
		Example: `
focusflow done 171dff69-f8b9-4dca-9d0a-0123456789ab
focusflow done 171dff69-f8b9-4dca-9d0a-0123456789ab --minutes 40
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}

			c := complete.Complete{
				ID:          args[0],
				ShowID:      io.ShowID,
				Persistence: p,
			}
			if minutes > 0 {
				c.ActualMinutes = &minutes
			}
			return c.Do(context.Background())
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Minutes actually spent, if known.")
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
