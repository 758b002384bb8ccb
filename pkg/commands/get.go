package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/commands/options"
	"tableflip.dev/focusflow/pkg/runner/get"
	"tableflip.dev/focusflow/pkg/store"
)

func addGet(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "List tasks, the agenda, or categories",
		Example: `
focusflow get
focusflow get --status open --category Work
focusflow get --focus
focusflow get --categories
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			settings, err := store.LoadConfig()
			if err != nil {
				return err
			}

			g := get.Get{
				ShowID:        io.ShowID,
				Status:        fo.Status,
				Category:      fo.Category,
				Priority:      fo.Priority,
				Search:        fo.Search,
				FocusOnly:     fo.Focus,
				Categories:    fo.Categories,
				TargetMinutes: settings.DailyTargetMinutes,
				Persistence:   p,
			}
			return g.Do(context.Background())
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
