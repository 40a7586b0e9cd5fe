// Package cli builds the customerdesk command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "customerdesk",
		Short:         "Customer record service",
		Long:          "Serves a sorted, validated customer list over HTTP and persists it after every batch.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a customerdesk.yaml config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "log format (text|json|logfmt)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewPayoutCommand())
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}
