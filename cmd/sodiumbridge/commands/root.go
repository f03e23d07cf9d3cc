package commands

import (
	"context"

	"github.com/spf13/cobra"

	"sodiumbridge/internal/app"
)

var (
	cfg  app.Config
	wire *app.Wire
)

func Execute() error {
	return execute(newRoot())
}

// execute runs root and tears down the wiring whether or not the command
// succeeded.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if wire != nil {
		if cerr := wire.Close(context.Background()); err == nil {
			err = cerr
		}
		wire = nil
	}
	return err
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "sodiumbridge",
		Short:        "Call libsodium-style primitives through a checked boundary",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.NewWire(cfg)
			if err != nil {
				return err
			}
			if w.Server != nil {
				if err := w.Server.Start(); err != nil {
					_ = w.Close(cmd.Context())
					return err
				}
			}
			wire = w
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&cfg.Workers, "workers", 0, "worker pool size for heavy operations (default GOMAXPROCS)")
	root.PersistentFlags().BoolVar(&cfg.LockSecrets, "lock-secrets", false, "lock secret buffers in memory during a call")
	root.PersistentFlags().StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve /metrics, /live and /ready on this address")
	root.PersistentFlags().BoolVar(&cfg.JSON, "json", false, "exchange byte sequences as JSON number arrays")

	root.AddCommand(opsCmd(), initCmd(), invokeCmd(), wasmCmd())
	return root
}
