// Package wasmhost publishes the bridge to WebAssembly guests as the host
// module "sodium".
//
// Guests pass byte arguments as spans of their own linear memory. Each span
// is copied into a boundary buffer before validation, so a guest can never
// observe a partially written output or mutate an input mid-call. Results
// are copied back into guest memory only after the whole operation
// succeeded.
//
// Functions (all integers little-endian):
//
//	init() -> i32
//	output_len(name_ptr, name_len, args_ptr, args_count) -> i64
//	invoke(name_ptr, name_len, args_ptr, args_count, out_ptr, out_cap) -> i64
//
// A negative i64 is the negated error kind code. Argument records are 12
// bytes: tag u32 (0 null, 1 bytes, 2 scalar) followed by ptr u32, len u32
// for bytes or lo u32, hi u32 for scalars.
package wasmhost

import (
	"context"
	"encoding/binary"
	stderrors "errors"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"sodiumbridge/internal/bridge"
	"sodiumbridge/internal/codec"
	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
	"sodiumbridge/internal/util/memzero"
)

// Argument record tags.
const (
	TagNull   uint32 = 0
	TagBytes  uint32 = 1
	TagScalar uint32 = 2
)

// RecordSize is the size of one argument record in guest memory.
const RecordSize = 12

var errBounds = stderrors.New("memory read failed: bounds exceeded")

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

// Host serves bridge operations to wasm guests.
type Host struct {
	b       *bridge.Bridge
	exports bridge.Exports
	codec   codec.Codec
	log     *zap.Logger
	maxArgs uint32
}

// New registers b's operations and returns a host for them.
func New(b *bridge.Bridge, log *zap.Logger) (*Host, error) {
	if log == nil {
		log = zap.NewNop()
	}
	exports := bridge.Exports{}
	if err := b.Module().Register(exports); err != nil {
		return nil, fmt.Errorf("register operations: %w", err)
	}
	var maxArgs uint32
	for _, d := range b.Operations() {
		maxArgs = max(maxArgs, uint32(len(d.Roles)))
	}
	return &Host{b: b, exports: exports, codec: b.Codec(), log: log.Named("wasmhost"), maxArgs: maxArgs}, nil
}

// Instantiate defines the host module in r. It must happen before any guest
// importing "sodium" is instantiated.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	if r.Module(bridge.ModuleName) != nil {
		return nil, fmt.Errorf("module %q already instantiated", bridge.ModuleName)
	}

	builder := r.NewHostModuleBuilder(bridge.ModuleName)
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.initFn), nil, []api.ValueType{i32}).
		Export("init")
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.outputLenFn),
			[]api.ValueType{i32, i32, i32, i32}, []api.ValueType{i64}).
		Export("output_len")
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.invokeFn),
			[]api.ValueType{i32, i32, i32, i32, i32, i32}, []api.ValueType{i64}).
		Export("invoke")

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate host module: %w", err)
	}
	return mod, nil
}

func (h *Host) initFn(ctx context.Context, _ api.Module, stack []uint64) {
	res := h.exports.Call(ctx, "sodium_init")
	rc, _ := res.Value().(int)
	if !res.OK() {
		rc = -1
	}
	stack[0] = api.EncodeI32(int32(rc))
}

func (h *Host) outputLenFn(ctx context.Context, mod api.Module, stack []uint64) {
	g, err := guestOf(mod)
	if err != nil {
		stack[0] = api.EncodeI64(h.fail("", err))
		return
	}
	stack[0] = api.EncodeI64(h.outputLen(ctx, g,
		api.DecodeU32(stack[0]), api.DecodeU32(stack[1]),
		api.DecodeU32(stack[2]), api.DecodeU32(stack[3])))
}

func (h *Host) invokeFn(ctx context.Context, mod api.Module, stack []uint64) {
	g, err := guestOf(mod)
	if err != nil {
		stack[0] = api.EncodeI64(h.fail("", err))
		return
	}
	stack[0] = api.EncodeI64(h.invoke(ctx, g,
		api.DecodeU32(stack[0]), api.DecodeU32(stack[1]),
		api.DecodeU32(stack[2]), api.DecodeU32(stack[3]),
		api.DecodeU32(stack[4]), api.DecodeU32(stack[5])))
}

// guest is the calling module's memory and the origin space of its spans.
type guest struct {
	mem   api.Memory
	space string
}

func guestOf(mod api.Module) (guest, *errors.Error) {
	if mod == nil || mod.Memory() == nil {
		return guest{}, errors.New(errors.PhaseHost, errors.KindUnavailable).
			Detail("caller exports no memory").Build()
	}
	return guest{mem: mod.Memory(), space: "wasm:" + mod.Name()}, nil
}

func (h *Host) outputLen(ctx context.Context, g guest, namePtr, nameLen, argsPtr, argsCount uint32) int64 {
	name, args, err := h.read(g, namePtr, nameLen, argsPtr, argsCount)
	if err != nil {
		return h.fail(name, err)
	}
	n, verr := h.b.OutputLen(ctx, name, args...)
	if verr != nil {
		return h.fail(name, verr)
	}
	return int64(n)
}

func (h *Host) invoke(ctx context.Context, g guest, namePtr, nameLen, argsPtr, argsCount, outPtr, outCap uint32) int64 {
	name, args, err := h.read(g, namePtr, nameLen, argsPtr, argsCount)
	if err != nil {
		return h.fail(name, err)
	}
	if uint64(outPtr)+uint64(outCap) > uint64(g.mem.Size()) {
		return h.fail(name, errors.New(errors.PhaseHost, errors.KindFormat).
			Op(name).Role("out").Detail("output region outside guest memory").Build())
	}

	want, verr := h.b.OutputLen(ctx, name, args...)
	if verr != nil {
		return h.fail(name, verr)
	}
	if want > uint64(outCap) {
		return h.fail(name, errors.New(errors.PhaseHost, errors.KindInvalidLength).
			Op(name).Role("out").Expected(fmt.Sprintf(">=%d", want)).Actual(int64(outCap)).Build())
	}

	res := h.exports.Call(ctx, name, args...)
	if !res.OK() {
		return h.fail(name, res.Err())
	}
	if raw, ok := res.Value().([]byte); ok {
		defer memzero.Zero(raw)
	}
	out, derr := h.codec.Decode(res.Value())
	if derr != nil {
		return h.fail(name, errors.New(errors.PhaseAdapt, errors.KindNative).
			Op(name).Cause(derr).Build())
	}
	defer memzero.Zero(out.Bytes())

	if !g.mem.Write(outPtr, out.Bytes()) {
		return h.fail(name, errors.New(errors.PhaseHost, errors.KindFormat).
			Op(name).Role("out").Detail("output write out of bounds").Build())
	}
	return int64(out.Len())
}

// read decodes the operation name and the argument records. Byte arguments
// stay as spans; the bridge's codec copies them.
func (h *Host) read(g guest, namePtr, nameLen, argsPtr, argsCount uint32) (string, []any, *errors.Error) {
	raw, ok := g.mem.Read(namePtr, nameLen)
	if !ok {
		return "", nil, errors.New(errors.PhaseDecode, errors.KindFormat).
			Role("name").Cause(errBounds).Build()
	}
	name := string(raw)

	// No operation takes more arguments than the widest descriptor; larger
	// counts are rejected before any allocation or bounds arithmetic.
	if argsCount > h.maxArgs {
		return name, nil, errors.New(errors.PhaseDecode, errors.KindFormat).
			Op(name).Role("args").Expected(fmt.Sprintf("<=%d", h.maxArgs)).Actual(int64(argsCount)).
			Detail("too many argument records").Build()
	}
	size := uint64(argsCount) * RecordSize
	if uint64(argsPtr)+size > uint64(g.mem.Size()) {
		return name, nil, errors.New(errors.PhaseDecode, errors.KindFormat).
			Op(name).Role("args").Cause(errBounds).Build()
	}
	records, _ := g.mem.Read(argsPtr, uint32(size))

	args := make([]any, argsCount)
	for i := range args {
		rec := records[i*RecordSize : (i+1)*RecordSize]
		tag := binary.LittleEndian.Uint32(rec[0:4])
		a := binary.LittleEndian.Uint32(rec[4:8])
		b := binary.LittleEndian.Uint32(rec[8:12])
		switch tag {
		case TagNull:
			args[i] = nil
		case TagBytes:
			args[i] = span{g: g, ptr: a, n: b}
		case TagScalar:
			args[i] = uint64(a) | uint64(b)<<32
		default:
			return name, nil, errors.New(errors.PhaseDecode, errors.KindFormat).
				Op(name).Detail("argument %d has unknown tag %d", i, tag).Build()
		}
	}
	return name, args, nil
}

func (h *Host) fail(op string, err *errors.Error) int64 {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("kind", string(err.Kind)),
		zap.String("role", err.Role),
		zap.String("phase", string(err.Phase)),
	}
	if err.HasActual() {
		fields = append(fields, zap.Int64("actual", err.Actual))
	}
	h.log.Debug("guest call failed", fields...)
	return -int64(err.Kind.Code())
}

// span is a byte argument living in guest memory.
type span struct {
	g      guest
	ptr, n uint32
}

// Span implements codec.Source.
func (s span) Span() ([]byte, domain.Origin, error) {
	view, ok := s.g.mem.Read(s.ptr, s.n)
	if !ok {
		return nil, domain.Origin{}, errBounds
	}
	return view, domain.Origin{
		Space: s.g.space,
		Start: uint64(s.ptr),
		End:   uint64(s.ptr) + uint64(s.n),
	}, nil
}
