package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "focusflow",
		Short: base.Wrap80("Task management with a daily focus agenda, on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addGet(topLevel)
	addFocus(topLevel)
	addDone(topLevel)
	addTimer(topLevel)
	addExport(topLevel)
	addServe(topLevel)
	addIngest(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
}
