package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sodiumbridge/internal/codec"
)

// Config holds the bridge's collaborators. Zero values select defaults.
type Config struct {
	Codec       codec.Codec           // managed representation; defaults to codec.Bytes
	Logger      *zap.Logger           // defaults to a no-op logger
	Tracer      trace.Tracer          // defaults to a no-op tracer
	Registerer  prometheus.Registerer // metrics are not registered when nil
	Workers     int                   // size of the pool used by Go; defaults to GOMAXPROCS
	LockSecrets bool                  // pin secret buffers in memory for the duration of a call
}
