package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/ingest"
)

func addIngest(topLevel *cobra.Command) {
	var (
		smtpAddr  string
		recipient string
		backend   string
		category  string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run the calendar invite SMTP listener on its own",
		Long: `Accept calendar invites over SMTP and file them as tasks through a
running API server. Use this when mail delivery and the API live on
different hosts; 'serve --smtp-addr' runs the same listener in-process.`,
		Example: `
focusflow ingest --smtp-addr :2525 --recipient '^inbox@' --backend http://localhost:8080
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if backend == "" {
				return errors.New("a --backend URL is required")
			}

			srv, err := ingest.NewServer(smtpAddr, recipient, &ingest.HTTPSink{
				BaseURL:  backend,
				Category: category,
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&smtpAddr, "smtp-addr", ":2525", "SMTP listen address.")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Regexp an invite recipient must match.")
	cmd.Flags().StringVar(&backend, "backend", "", "Base URL of the API server to file invites with.")
	cmd.Flags().StringVar(&category, "category", "", "Category name for filed invites.")

	topLevel.AddCommand(cmd)
}
