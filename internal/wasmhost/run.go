package wasmhost

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"sodiumbridge/internal/native"
)

// RunConfig describes one guest execution.
type RunConfig struct {
	Name   string
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

// Run instantiates WASI, the sodium host module and the guest in a fresh
// runtime, executing the guest's _start. It returns the guest's exit code.
func (h *Host) Run(ctx context.Context, wasm []byte, cfg RunConfig) (uint32, error) {
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return 0, fmt.Errorf("instantiate WASI: %w", err)
	}
	if _, err := h.Instantiate(ctx, r); err != nil {
		return 0, err
	}

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		return 0, fmt.Errorf("compile guest: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "guest"
	}
	modCfg := wazero.NewModuleConfig().
		WithName(name).
		WithArgs(append([]string{name}, cfg.Args...)...).
		WithRandSource(randReader{})
	if cfg.Stdout != nil {
		modCfg = modCfg.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		modCfg = modCfg.WithStderr(cfg.Stderr)
	}

	h.log.Debug("running guest", zap.String("name", name), zap.Int("args", len(cfg.Args)))
	mod, err := r.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		var exit *sys.ExitError
		if stderrors.As(err, &exit) {
			return exit.ExitCode(), nil
		}
		return 0, fmt.Errorf("run guest: %w", err)
	}
	return 0, mod.Close(ctx)
}

// randReader feeds the guest's random_get from the native generator.
type randReader struct{}

func (randReader) Read(p []byte) (int, error) {
	if rc := native.RandomBytes(p); rc != native.OK {
		return 0, fmt.Errorf("random source failed (code %d)", rc)
	}
	return len(p), nil
}
