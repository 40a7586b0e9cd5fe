package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"customerdesk/internal/payout"
)

// ValidPayoutFormats defines the allowed payout output formats.
var ValidPayoutFormats = []string{"text", "json"}

// NewPayoutCommand creates the payout command.
func NewPayoutCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "payout [amount...]",
		Short: "List note combinations (100/50/10) for payout amounts",
		Long:  "Lists every combination of 100, 50 and 10 notes that pays out each amount. Without arguments a fixed set of demo amounts is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			amounts, err := parseAmounts(args)
			if err != nil {
				return err
			}
			switch format {
			case "text":
				return payout.Render(cmd.OutOrStdout(), amounts)
			case "json":
				return payout.RenderJSON(cmd.OutOrStdout(), amounts)
			default:
				return fmt.Errorf("invalid format %q: must be one of %v", format, ValidPayoutFormats)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json)")

	return cmd
}

func parseAmounts(args []string) ([]int, error) {
	if len(args) == 0 {
		return payout.DemoAmounts, nil
	}
	amounts := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", arg, err)
		}
		amounts = append(amounts, n)
	}
	return amounts, nil
}
