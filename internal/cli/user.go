package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}

	var password string
	create := &cobra.Command{
		Use:   "create USERNAME EMAIL",
		Short: "Create an API user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("a password is required, pass it with --password")
			}
			if _, err := a.service(); err != nil {
				return err
			}
			user, err := a.db.CreateUserWithCredentials(args[0], args[1], password)
			if err != nil {
				return err
			}
			fmt.Printf("Created user %s\n", user.Username)
			return nil
		},
	}
	create.Flags().StringVarP(&password, "password", "p", "", "password for the new user")

	cmd.AddCommand(create)
	return cmd
}
