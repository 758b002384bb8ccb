package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/runner/export"
)

func addExport(topLevel *cobra.Command) {
	var (
		google   bool
		calendar string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the agenda as calendar events",
		Long: `Lay the open agenda tasks end to end starting shortly from now, one event
per estimated task, and print the result as an iCalendar document. With
--google the events are pushed into a Google Calendar instead.`,
		Example: `
focusflow export > agenda.ics
focusflow export --google --calendar Focus
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, settings, err := loadWithSettings()
			if err != nil {
				return err
			}

			e := export.Export{
				Google:      google,
				Calendar:    calendar,
				Lead:        time.Duration(settings.ExportLeadMinutes) * time.Minute,
				Gap:         time.Duration(settings.ExportGapMinutes) * time.Minute,
				Persistence: p,
			}
			return e.Do(context.Background())
		},
	}

	cmd.Flags().BoolVar(&google, "google", false, "Push events to Google Calendar instead of printing .ics.")
	cmd.Flags().StringVar(&calendar, "calendar", "", "Google calendar name. Uses the primary calendar when empty.")

	topLevel.AddCommand(cmd)
}
