package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func migrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and list their status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()
				if a.db == nil {
					fmt.Fprintln(out, "memory storage has no schema")
					return nil
				}
				status, err := a.db.MigrationStatus(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Database: %s\n\n", a.cfg.DatabasePath)
				for _, m := range status {
					applied := "pending"
					if m.AppliedAt != nil {
						applied = m.AppliedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(out, "- %s  %s\n", m.Filename, applied)
				}
				return nil
			})
		},
	}
}
