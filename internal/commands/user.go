package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
)

func newCreateUserCommand() *cobra.Command {
	var params auth.RegisterParams

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			u, err := rt.svc.Auth.Register(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("creating user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s <%s> (%s)\n", u.Name, u.Email, u.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&params.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&params.Password, "password", "", "password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
