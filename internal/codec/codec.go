// Package codec converts managed values into boundary buffers and back.
//
// Decoding always copies: a Buffer never aliases the managed value it came
// from. Encoding always copies too, so the caller may wipe the boundary output
// right after Encode returns.
package codec

import (
	"encoding/json"
	"math"
	"unsafe"

	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
	"sodiumbridge/internal/util/memzero"
)

// Codec is the managed-side representation of byte sequences.
type Codec interface {
	Name() string
	Decode(v any) (domain.Buffer, error)
	DecodeScalar(v any) (uint64, error)
	Encode(b []byte) any
}

// Source is a span of foreign memory, such as a wasm guest's linear memory.
// Span may return a view into that memory; the codec copies it.
type Source interface {
	Span() ([]byte, domain.Origin, error)
}

// GoSpace is the origin space of Go byte slices.
const GoSpace = "go"

// maxSafeInteger is the largest integer a float64 represents exactly.
const maxSafeInteger = 1<<53 - 1

// ByName returns the codec registered under name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "", "bytes":
		return Bytes{}, true
	case "numbers", "json":
		return NumberArray{}, true
	}
	return nil, false
}

func decode(v any) (domain.Buffer, error) {
	switch x := v.(type) {
	case nil:
		return domain.Absent(), nil
	case []byte:
		return domain.NewBuffer(append([]byte{}, x...), sliceOrigin(x)), nil
	case Source:
		view, origin, err := x.Span()
		if err != nil {
			return domain.Buffer{}, errors.New(errors.PhaseDecode, errors.KindFormat).
				Detail("unreadable source").Cause(err).Build()
		}
		return domain.NewBuffer(append([]byte{}, view...), origin), nil
	case []int:
		return numbers(len(x), func(i int) (uint64, bool) {
			if x[i] < 0 {
				return 0, false
			}
			return uint64(x[i]), true
		})
	case []float64:
		return numbers(len(x), func(i int) (uint64, bool) { return fromFloat(x[i]) })
	case []any:
		return numbers(len(x), func(i int) (uint64, bool) {
			n, err := scalar(x[i])
			return n, err == nil
		})
	}
	return domain.Buffer{}, errors.Format("unsupported byte sequence type %T", v)
}

func numbers(n int, at func(int) (uint64, bool)) (domain.Buffer, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b, ok := at(i)
		if !ok || b > 255 {
			memzero.Zero(out[:i])
			return domain.Buffer{}, errors.Format("element %d is not a byte value", i)
		}
		out[i] = byte(b)
	}
	return domain.NewBuffer(out, domain.Origin{}), nil
}

func sliceOrigin(b []byte) domain.Origin {
	if len(b) == 0 {
		return domain.Origin{}
	}
	start := uint64(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
	return domain.Origin{Space: GoSpace, Start: start, End: start + uint64(len(b))}
}

func fromFloat(f float64) (uint64, bool) {
	if f < 0 || f > maxSafeInteger || f != math.Trunc(f) {
		return 0, false
	}
	return uint64(f), true
}

func scalar(v any) (uint64, error) {
	var (
		n  uint64
		ok = true
	)
	switch x := v.(type) {
	case int:
		n, ok = uint64(x), x >= 0
	case int8:
		n, ok = uint64(x), x >= 0
	case int16:
		n, ok = uint64(x), x >= 0
	case int32:
		n, ok = uint64(x), x >= 0
	case int64:
		n, ok = uint64(x), x >= 0
	case uint:
		n = uint64(x)
	case uint8:
		n = uint64(x)
	case uint16:
		n = uint64(x)
	case uint32:
		n = uint64(x)
	case uint64:
		n = x
	case float64:
		n, ok = fromFloat(x)
	case float32:
		n, ok = fromFloat(float64(x))
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil {
				return 0, errors.Format("scalar is not a number")
			}
			n, ok = fromFloat(f)
		} else {
			n, ok = uint64(i), i >= 0
		}
	default:
		return 0, errors.Format("unsupported scalar type %T", v)
	}
	if !ok {
		return 0, errors.Format("scalar is not a non-negative integer")
	}
	return n, nil
}
