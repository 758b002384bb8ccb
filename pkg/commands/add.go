package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/commands/options"
	"tableflip.dev/focusflow/pkg/printers"
	"tableflip.dev/focusflow/pkg/runner/add"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/task"
)

func addAdd(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Example: `
focusflow add write the quarterly report -c Work -p high -e 45
focusflow add buy groceries --focus
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("a task title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}

			var due *time.Time
			if to.Due != "" {
				when, err := task.ParseTime(to.Due)
				if err != nil {
					return err
				}
				due = &when
			}

			a := add.Add{
				Title:       strings.Join(args, " "),
				Description: to.Description,
				Category:    to.Category,
				Priority:    to.Priority,
				Estimate:    to.Estimate,
				Due:         due,
				Focus:       to.Focus,
				ShowID:      io.ShowID,
				Persistence: p,
			}
			return a.Do(context.Background())
		},
	}

	options.AddTaskArgs(cmd, to)
	options.AddShowIDArgs(cmd, io)

	addAddCategory(cmd)

	topLevel.AddCommand(cmd)
}

func addAddCategory(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	color := ""

	cmd := &cobra.Command{
		Use:   "category <name>",
		Short: "Add a category",
		Example: `
focusflow add category "Deep Work" --color "#336699"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}

			ctx := context.Background()
			c, err := p.EnsureCategory(args[0])
			if err != nil {
				return err
			}
			if color != "" {
				if c, err = p.UpdateCategory(ctx, c.ID, nil, &color); err != nil {
					return err
				}
			}

			pp := printers.PrettyPrint{ShowID: io.ShowID}
			pp.Title("categories")
			pp.Categories(p.ListCategories(ctx)...)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Display color for the category.")
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
