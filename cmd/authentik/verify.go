package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	auth "github.com/goliatone/go-authentik"
)

// NewVerifyCmd creates the verify subcommand.
func NewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify a token and print its claims",
		Long: `Verify a token with the configured secret and print the decoded
claims as JSON. Rejected tokens print the same message the HTTP guard returns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadServices(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			claims, err := s.guard.Verify(cmd.Context(), args[0])
			if err != nil {
				return errors.New(auth.RejectionFor(err).Message)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(claims.Map())
		},
	}
}
