package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"sodiumbridge/internal/bridge"
)

const (
	maxGoroutines = 10000
	readyTimeout  = time.Second

	// minAvailable covers one password hash at the default scrypt limits.
	minAvailable = 32 << 20
)

// Server exposes metrics and health checks over HTTP.
type Server struct {
	Health healthcheck.Handler

	log  *zap.Logger
	mux  *http.ServeMux
	srv  *http.Server
	addr net.Addr
}

// NewServer builds the handler tree. Nothing listens until Start.
func NewServer(addr string, reg *prometheus.Registry, b *bridge.Bridge, log *zap.Logger) *Server {
	health := healthcheck.NewMetricsHandler(reg, "sodiumbridge")
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))
	health.AddReadinessCheck("bridge", healthcheck.Timeout(b.Ready, readyTimeout))
	health.AddReadinessCheck("memory", healthcheck.Timeout(memoryCheck(minAvailable), readyTimeout))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/live", health.LiveEndpoint)
	mux.HandleFunc("/ready", health.ReadyEndpoint)

	return &Server{
		Health: health,
		log:    log,
		mux:    mux,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// memoryCheck fails when less than min bytes of memory are available.
func memoryCheck(min uint64) healthcheck.Check {
	return func() error {
		vm, err := mem.VirtualMemory()
		if err != nil {
			return fmt.Errorf("read memory stats: %w", err)
		}
		if vm.Available < min {
			return fmt.Errorf("available memory %d below %d", vm.Available, min)
		}
		return nil
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.addr = ln.Addr()
	s.log.Info("serving metrics", zap.Stringer("addr", s.addr))

	go func() {
		if err := s.srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Error("metrics server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Addr is the bound address once Start has returned.
func (s *Server) Addr() net.Addr { return s.addr }

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.addr == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
