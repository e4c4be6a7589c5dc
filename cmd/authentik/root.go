package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the authentik CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authentik",
		Short: "authentik - JWT login and bearer token gate",
		Long: `authentik issues JSON Web Tokens for a configured username/password
pair and guards HTTP routes with the issued bearer tokens.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "authentik.yaml", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewVerifyCmd())

	return cmd
}
