package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Run native initialisation twice and report idempotence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			first := wire.Bridge.Init()
			second := wire.Bridge.Init()
			if first < 0 || second < 0 {
				return fmt.Errorf("initialisation failed (codes %d, %d)", first, second)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "init: %d\ninit again: %d\nidempotent: %t\n",
				first, second, first == second)
			return nil
		},
	}
}
