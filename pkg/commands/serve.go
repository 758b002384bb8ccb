package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	var (
		listenAddr    string
		smtpAddr      string
		smtpRecipient string
		schedule      string
		targetMinutes int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Long: `Serve the task, agenda, and timer API over HTTP. With an SMTP address
configured the server also accepts calendar invites by mail, and a daily
rollover clears completed tasks off the agenda.`,
		Example: `
focusflow serve
focusflow serve --listen-addr :9090 --smtp-addr :2525 --smtp-recipient '^inbox@'
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, settings, err := loadWithSettings()
			if err != nil {
				return err
			}

			s := serve.Serve{
				ListenAddr:         settings.ListenAddr,
				SMTPAddr:           settings.SMTPAddr,
				SMTPRecipient:      settings.SMTPRecipient,
				RolloverSchedule:   settings.RolloverSchedule,
				DailyTargetMinutes: settings.DailyTargetMinutes,
				Persistence:        p,
			}
			if listenAddr != "" {
				s.ListenAddr = listenAddr
			}
			if smtpAddr != "" {
				s.SMTPAddr = smtpAddr
			}
			if smtpRecipient != "" {
				s.SMTPRecipient = smtpRecipient
			}
			if schedule != "" {
				s.RolloverSchedule = schedule
			}
			if targetMinutes > 0 {
				s.DailyTargetMinutes = targetMinutes
			}
			return s.Do(context.Background())
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen-addr", "", "HTTP listen address.")
	cmd.Flags().StringVar(&smtpAddr, "smtp-addr", "", "SMTP listen address for calendar invites. Disabled when empty.")
	cmd.Flags().StringVar(&smtpRecipient, "smtp-recipient", "", "Regexp an invite recipient must match.")
	cmd.Flags().StringVar(&schedule, "rollover", "", "Cron schedule for the daily agenda sweep.")
	cmd.Flags().IntVar(&targetMinutes, "daily-target", 0, "Daily focus budget in minutes.")

	topLevel.AddCommand(cmd)
}
