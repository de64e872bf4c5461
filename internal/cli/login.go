package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msomdec/hbnb/internal/service"
)

func checkLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "check-login",
		Short: "Authenticate a user and print a signed token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.cfg.RequireJWTSecret(); err != nil {
					return err
				}
				limiter := service.NewTokenBucket(a.cfg.LoginRate, a.cfg.LoginBurst)
				defer limiter.Close()

				auth := service.NewAuthService(a.facade, a.cfg.JWTSecret, a.cfg.TokenTTL, limiter)
				token, err := auth.Login(ctx, email, password)
				if err != nil {
					return err
				}
				claims, err := auth.ValidateToken(token)
				if err != nil {
					return err
				}
				a.logger.Debug("token issued", "user_id", claims.UserID, "admin", claims.IsAdmin)
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
