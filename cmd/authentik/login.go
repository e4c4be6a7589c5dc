package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login subcommand.
func NewLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials and print a token",
		Long:  `Run the configured credential check and print the signed token on success.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadServices(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			result := s.auther.Login(cmd.Context(), username, password)
			if result.Err != nil {
				return errors.New(result.Message())
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")

	return cmd
}
