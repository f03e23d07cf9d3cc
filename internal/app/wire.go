package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"sodiumbridge/internal/bridge"
	"sodiumbridge/internal/codec"
	"sodiumbridge/internal/wasmhost"
)

// Wire bundles the bridge and its collaborators for the CLI.
type Wire struct {
	Log      *zap.Logger
	Registry *prometheus.Registry
	Bridge   *bridge.Bridge
	Host     *wasmhost.Host
	Server   *Server // nil unless Config.MetricsAddr is set
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	log, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Process and Go runtime collectors alongside the bridge's own
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Managed representation of byte sequences
	var c codec.Codec = codec.Bytes{}
	if cfg.JSON {
		c = codec.NumberArray{}
	}

	b, err := bridge.New(bridge.Config{
		Codec:       c,
		Logger:      log.Named("bridge"),
		Tracer:      otel.Tracer("sodiumbridge"),
		Registerer:  reg,
		Workers:     cfg.Workers,
		LockSecrets: cfg.LockSecrets,
	})
	if err != nil {
		return nil, fmt.Errorf("build bridge: %w", err)
	}

	host, err := wasmhost.New(b, log)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("build wasm host: %w", err)
	}

	w := &Wire{Log: log, Registry: reg, Bridge: b, Host: host}
	if cfg.MetricsAddr != "" {
		w.Server = NewServer(cfg.MetricsAddr, reg, b, log.Named("metrics"))
	}
	return w, nil
}

// NewLogger builds a development logger at the named level.
func NewLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "warn"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = lvl
	zcfg.OutputPaths = []string{"stderr"}
	log, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// Close stops the metrics server, releases the worker pool and flushes the
// logger.
func (w *Wire) Close(ctx context.Context) error {
	var err error
	if w.Server != nil {
		err = w.Server.Shutdown(ctx)
	}
	w.Bridge.Close()
	_ = w.Log.Sync()
	return err
}
