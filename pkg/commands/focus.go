package commands

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/commands/options"
	"tableflip.dev/focusflow/pkg/runner/focus"
	"tableflip.dev/focusflow/pkg/runner/get"
	"tableflip.dev/focusflow/pkg/store"
)

func addFocus(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	at := -1

	cmd := &cobra.Command{
		Use:   "focus <id>",
		Short: "Put a task on today's agenda",
		Example: `
focusflow focus 171dff69-f8b9-4dca-9d0a-0123456789ab
focusflow focus 171dff69-f8b9-4dca-9d0a-0123456789ab --at 0
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, settings, err := loadWithSettings()
			if err != nil {
				return err
			}

			index := at
			if index < 0 {
				// Append by default; insertion clamps to the end.
				index = 1 << 30
			}

			f := focus.Focus{
				ID:            args[0],
				Index:         index,
				ShowID:        io.ShowID,
				TargetMinutes: settings.DailyTargetMinutes,
				Persistence:   p,
			}
			return f.Do(context.Background())
		},
	}

	cmd.Flags().IntVar(&at, "at", -1, "Agenda position to insert at, zero-based. Appends by default.")
	options.AddShowIDArgs(cmd, io)

	addFocusRemove(cmd)
	addFocusMove(cmd)
	addFocusList(cmd)

	topLevel.AddCommand(cmd)
}

func addFocusList(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the agenda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, settings, err := loadWithSettings()
			if err != nil {
				return err
			}

			g := get.Get{
				ShowID:        io.ShowID,
				FocusOnly:     true,
				TargetMinutes: settings.DailyTargetMinutes,
				Persistence:   p,
			}
			return g.Do(context.Background())
		},
	}

	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

func addFocusRemove(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Short:   "Take a task off the agenda",
		Aliases: []string{"remove"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, settings, err := loadWithSettings()
			if err != nil {
				return err
			}

			f := focus.Focus{
				ID:            args[0],
				Remove:        true,
				ShowID:        io.ShowID,
				TargetMinutes: settings.DailyTargetMinutes,
				Persistence:   p,
			}
			return f.Do(context.Background())
		},
	}

	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

func addFocusMove(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move an agenda item to another position",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("expected <from> and <to> positions")
			}
			for _, a := range args {
				if _, err := strconv.Atoi(a); err != nil {
					return errors.New("positions must be numbers")
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, settings, err := loadWithSettings()
			if err != nil {
				return err
			}

			from, _ := strconv.Atoi(args[0])
			to, _ := strconv.Atoi(args[1])

			f := focus.Focus{
				Reorder:       true,
				From:          from,
				To:            to,
				ShowID:        io.ShowID,
				TargetMinutes: settings.DailyTargetMinutes,
				Persistence:   p,
			}
			return f.Do(context.Background())
		},
	}

	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

func loadWithSettings() (store.Persistence, *store.Settings, error) {
	settings, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(settings)
	if err != nil {
		return nil, nil, err
	}
	return p, settings, nil
}
