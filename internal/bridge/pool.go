package bridge

import (
	"context"

	"go.uber.org/zap"

	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
	"sodiumbridge/internal/native"
)

// Go schedules the named operation on the worker pool. The channel delivers
// exactly one Result. The managed arguments must not be modified until it
// does. A saturated or closed pool yields an unavailable failure.
func (b *Bridge) Go(ctx context.Context, name string, args ...any) <-chan domain.Result {
	ch := make(chan domain.Result, 1)
	err := b.pool.Submit(func() {
		if cerr := ctx.Err(); cerr != nil {
			ch <- domain.Failure(errors.New(errors.PhaseSchedule, errors.KindUnavailable).
				Op(name).Cause(cerr).Build())
			return
		}
		ch <- b.Call(ctx, name, args...)
	})
	if err != nil {
		ch <- domain.Failure(errors.New(errors.PhaseSchedule, errors.KindUnavailable).
			Op(name).Cause(err).Build())
	}
	return ch
}

// Running returns the number of busy workers.
func (b *Bridge) Running() int { return b.pool.Running() }

// Ready reports whether calls can still be scheduled.
func (b *Bridge) Ready() error {
	if b.pool.IsClosed() {
		return errors.New(errors.PhaseSchedule, errors.KindUnavailable).
			Detail("worker pool closed").Build()
	}
	if native.Init() < 0 {
		return errors.New(errors.PhaseHost, errors.KindUnavailable).
			Detail("native library unavailable").Build()
	}
	return nil
}

// poolLogger routes the pool's own messages to zap.
type poolLogger struct {
	s *zap.SugaredLogger
}

func (l poolLogger) Printf(format string, args ...any) {
	l.s.Debugf(format, args...)
}
