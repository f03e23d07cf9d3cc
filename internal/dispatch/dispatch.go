// Package dispatch maps every catalog operation to exactly one native call.
//
// The table is a fixed array indexed by operation id and is checked for
// completeness at init. Callers must validate arguments first; the
// dispatcher only allocates the output and runs the primitive.
package dispatch

import (
	"fmt"

	"sodiumbridge/internal/catalog"
	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
	"sodiumbridge/internal/util/memzero"
)

// call runs one primitive into out and returns the bytes written and the
// native status.
type call func(out []byte, a *domain.Args) (written int, rc int)

// Outcome is the raw result of a native call.
type Outcome struct {
	Out []byte
	RC  int
}

var table [catalog.Count]call

func init() {
	for id, fn := range bindings() {
		if table[id] != nil {
			panic(fmt.Sprintf("dispatch: duplicate binding for op %d", id))
		}
		table[id] = fn
	}
	for id := range table {
		if table[id] == nil {
			d, _ := catalog.ByID(domain.OpID(id))
			panic("dispatch: no binding for " + d.Name)
		}
	}
}

// Bound reports whether id has a binding.
func Bound(id domain.OpID) bool {
	return int(id) < len(table) && table[id] != nil
}

// Dispatch allocates outLen bytes and runs the primitive bound to desc. A
// panic in the primitive is reported as a native failure. On any failure the
// output is wiped and not returned.
func Dispatch(desc *domain.Descriptor, args *domain.Args, outLen uint64) (res Outcome, err *errors.Error) {
	if !Bound(desc.ID) {
		return Outcome{}, errors.Unsupported(desc.Name)
	}
	if outLen > uint64(maxInt) {
		return Outcome{}, errors.New(errors.PhaseDispatch, errors.KindInvalidLength).
			Op(desc.Name).Role("out").Detail("output too large").Build()
	}
	out := make([]byte, outLen)

	defer func() {
		if r := recover(); r != nil {
			memzero.Zero(out)
			res = Outcome{}
			err = errors.New(errors.PhaseDispatch, errors.KindNative).
				Op(desc.Name).Detail("primitive panicked").Build()
		}
	}()

	written, rc := table[desc.ID](out, args)
	if rc != 0 {
		memzero.Zero(out)
		return Outcome{RC: rc}, nil
	}
	if written < len(out) {
		trimmed := make([]byte, written)
		copy(trimmed, out)
		memzero.Zero(out)
		out = trimmed
	}
	return Outcome{Out: out, RC: rc}, nil
}

const maxInt = int(^uint(0) >> 1)
