package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sodiumbridge/internal/wasmhost"
)

func wasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wasm <module.wasm> [guest args...]",
		Short: `Run a WASI guest with the "sodium" host module`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			code, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read guest: %w", err)
			}

			exit, err := wire.Host.Run(cmd.Context(), code, wasmhost.RunConfig{
				Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
				Args:   args[1:],
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			if exit != 0 {
				return fmt.Errorf("guest exited with code %d", exit)
			}
			return nil
		},
	}
}
