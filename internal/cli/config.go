package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"customerdesk/internal/config"
)

// NewConfigCommand creates the config command, which prints the effective
// configuration as YAML.
func NewConfigCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, root.ConfigPath)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
