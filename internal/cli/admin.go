package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msomdec/hbnb/internal/service"
)

func createAdminCmd(opts *rootOptions) *cobra.Command {
	var in service.CreateUserInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a user with administrator rights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				u, err := a.facade.CreateAdmin(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email(), u.ID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last", "", "last name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	for _, f := range []string{"first", "last", "email", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
