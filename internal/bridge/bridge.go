package bridge

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"sodiumbridge/internal/adapter"
	"sodiumbridge/internal/catalog"
	"sodiumbridge/internal/codec"
	"sodiumbridge/internal/dispatch"
	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
	"sodiumbridge/internal/native"
	"sodiumbridge/internal/util/memzero"
	"sodiumbridge/internal/validate"
)

const (
	tracerName    = "sodiumbridge"
	unsupportedOp = "unsupported"
	outcomeOK     = "ok"
)

// Bridge exposes the catalog operations to a managed caller.
type Bridge struct {
	codec  codec.Codec
	log    *zap.Logger
	tracer trace.Tracer
	m      *metrics
	pool   *ants.Pool
	lock   bool

	table []domain.Descriptor
	index map[string]domain.OpID
}

// New initialises the native layer and builds a bridge from cfg.
func New(cfg Config) (*Bridge, error) {
	if rc := native.Init(); rc < 0 {
		return nil, errors.New(errors.PhaseHost, errors.KindUnavailable).
			Code(rc).Detail("native initialisation failed").Build()
	}

	b := &Bridge{
		codec:  cfg.Codec,
		log:    cfg.Logger,
		tracer: cfg.Tracer,
		lock:   cfg.LockSecrets,
		table:  catalog.All(),
	}
	if b.codec == nil {
		b.codec = codec.Bytes{}
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	if b.tracer == nil {
		b.tracer = noop.NewTracerProvider().Tracer(tracerName)
	}

	b.index = make(map[string]domain.OpID, len(b.table))
	for _, d := range b.table {
		b.index[d.Name] = d.ID
	}

	m, err := newMetrics(cfg.Registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	b.m = m

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(workers,
		ants.WithNonblocking(true),
		ants.WithLogger(poolLogger{b.log.Sugar()}),
		ants.WithPanicHandler(func(p any) {
			b.log.Error("worker panic", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("worker pool: %w", err)
	}
	b.pool = pool
	if err := b.m.trackBusy(b.Running); err != nil {
		pool.Release()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	b.log.Debug("bridge ready",
		zap.Int("operations", len(b.table)),
		zap.String("codec", b.codec.Name()),
		zap.Int("workers", workers),
		zap.Bool("lock_secrets", b.lock),
	)
	return b, nil
}

// Close stops the worker pool. Pending Go calls still deliver their result.
func (b *Bridge) Close() {
	b.m.close()
	b.pool.Release()
}

// Init runs native initialisation again and returns its status. New has
// already initialised the library, so this returns 1 unless it failed.
func (b *Bridge) Init() int {
	return native.Init()
}

// Codec returns the managed representation in use.
func (b *Bridge) Codec() codec.Codec { return b.codec }

// Operations returns copies of every descriptor in id order.
func (b *Bridge) Operations() []domain.Descriptor {
	out := make([]domain.Descriptor, len(b.table))
	for i := range b.table {
		out[i] = b.table[i].Clone()
	}
	return out
}

// Describe returns a copy of the named descriptor.
func (b *Bridge) Describe(name string) (domain.Descriptor, bool) {
	d := b.lookup(name)
	if d == nil {
		return domain.Descriptor{}, false
	}
	return d.Clone(), true
}

func (b *Bridge) lookup(name string) *domain.Descriptor {
	id, ok := b.index[name]
	if !ok {
		return nil
	}
	return &b.table[id]
}

// Call runs the named operation with managed arguments in call order.
func (b *Bridge) Call(ctx context.Context, name string, args ...any) domain.Result {
	desc := b.lookup(name)
	if desc == nil {
		return b.unsupported(ctx, name)
	}
	return b.invoke(ctx, desc, args)
}

// Invoke runs the operation with the given id.
func (b *Bridge) Invoke(ctx context.Context, id domain.OpID, args ...any) domain.Result {
	if int(id) >= len(b.table) {
		return b.unsupported(ctx, fmt.Sprintf("#%d", id))
	}
	return b.invoke(ctx, &b.table[id], args)
}

// OutputLen decodes and validates the arguments and returns the size the
// output will have. Nothing is dispatched.
func (b *Bridge) OutputLen(ctx context.Context, name string, args ...any) (uint64, *errors.Error) {
	desc := b.lookup(name)
	if desc == nil {
		return 0, errors.Unsupported(name)
	}
	decoded, err := b.decode(desc, args)
	if err != nil {
		return 0, err
	}
	defer wipeAll(&decoded)
	if err := validate.Validate(desc, &decoded); err != nil {
		return 0, err
	}
	return validate.OutputLen(desc, &decoded), nil
}

func (b *Bridge) unsupported(ctx context.Context, name string) domain.Result {
	_, span := b.tracer.Start(ctx, "sodium."+unsupportedOp)
	defer span.End()
	err := errors.Unsupported(name)
	b.finish(span, unsupportedOp, err, time.Now())
	return domain.Failure(err)
}

func (b *Bridge) invoke(ctx context.Context, desc *domain.Descriptor, values []any) domain.Result {
	start := time.Now()
	_, span := b.tracer.Start(ctx, "sodium."+desc.Name, trace.WithAttributes(
		attribute.String("sodium.op", desc.Name),
		attribute.Int("sodium.args", len(values)),
	))
	defer span.End()

	args, derr := b.decode(desc, values)
	if derr != nil {
		b.finish(span, desc.Name, derr, start)
		return domain.Failure(derr)
	}
	defer wipeAll(&args)

	scope := adapter.Guard(desc, &args, b.lock)
	defer scope.Wipe()

	if verr := validate.Validate(desc, &args); verr != nil {
		b.finish(span, desc.Name, verr, start)
		return domain.Failure(verr)
	}

	outLen := validate.OutputLen(desc, &args)
	span.SetAttributes(attribute.Int64("sodium.output_len", int64(outLen)))

	out, xerr := dispatch.Dispatch(desc, &args, outLen)
	if xerr != nil {
		b.finish(span, desc.Name, xerr, start)
		return domain.Failure(xerr)
	}
	if desc.Output.Secret {
		scope.Track(out.Out, b.lock)
	}

	res := adapter.Adapt(desc, out, b.codec)
	b.finish(span, desc.Name, res.Err(), start)
	return res
}

// decode binds managed values to roles. On failure every buffer decoded so
// far is wiped.
func (b *Bridge) decode(desc *domain.Descriptor, values []any) (domain.Args, *errors.Error) {
	args := domain.Args{List: make([]domain.Arg, len(desc.Roles))}
	if len(values) > len(desc.Roles) {
		args.Extra = len(values) - len(desc.Roles)
	}
	for i, r := range desc.Roles {
		arg := domain.Arg{Role: r.Name, Kind: r.Kind, Buffer: domain.Absent()}
		var v any
		if i < len(values) {
			v = values[i]
		}
		if v != nil {
			var err error
			if r.Kind == domain.ArgScalar {
				arg.Value, err = b.codec.DecodeScalar(v)
			} else {
				arg.Buffer, err = b.codec.Decode(v)
			}
			if err != nil {
				wipeAll(&args)
				e := *errors.As(err)
				e.Phase, e.Op, e.Role = errors.PhaseDecode, desc.Name, r.Name
				return domain.Args{}, &e
			}
			arg.Present = r.Kind == domain.ArgScalar || arg.Buffer.Present()
		}
		args.List[i] = arg
	}
	return args, nil
}

func wipeAll(args *domain.Args) {
	for _, a := range args.List {
		memzero.Zero(a.Buffer.Bytes())
	}
}

func (b *Bridge) finish(span trace.Span, op string, err *errors.Error, start time.Time) {
	outcome := outcomeOK
	if err != nil {
		outcome = string(err.Kind)
		span.SetStatus(codes.Error, outcome)
		span.SetAttributes(attribute.String("sodium.error_kind", outcome))
		fields := []zap.Field{
			zap.String("op", op),
			zap.String("kind", outcome),
			zap.String("role", err.Role),
			zap.String("phase", string(err.Phase)),
		}
		if err.HasActual() {
			fields = append(fields, zap.String("expected", err.Expected), zap.Int64("actual", err.Actual))
		}
		b.log.Debug("invocation failed", fields...)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	b.m.observe(op, outcome, time.Since(start))
}
