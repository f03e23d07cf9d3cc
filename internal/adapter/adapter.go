// Package adapter turns native outcomes into managed results and wipes the
// boundary buffers of a call.
package adapter

import (
	"sodiumbridge/internal/codec"
	"sodiumbridge/internal/dispatch"
	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
	"sodiumbridge/internal/native"
	"sodiumbridge/internal/util/memzero"
)

// Adapt encodes a successful output through c or maps the native status to
// a structured error. The boundary output is wiped either way.
func Adapt(desc *domain.Descriptor, res dispatch.Outcome, c codec.Codec) domain.Result {
	defer memzero.Zero(res.Out)
	if res.RC != native.OK {
		return domain.Failure(Failure(desc, res.RC))
	}
	return domain.Success(c.Encode(res.Out))
}

// Failure maps a negative native status. -1 takes the operation's failure
// class; anything else is a native failure carrying the code.
func Failure(desc *domain.Descriptor, rc int) *errors.Error {
	if rc == native.Fail && desc.OnFailure == domain.FailAuth {
		return errors.New(errors.PhaseDispatch, errors.KindAuthentication).Op(desc.Name).Build()
	}
	return errors.New(errors.PhaseDispatch, errors.KindNative).Op(desc.Name).Code(rc).Build()
}

// Guard tracks every secret role buffer of a call. With lock set the pages
// are pinned until the scope is wiped; the caller defers Wipe.
func Guard(desc *domain.Descriptor, args *domain.Args, lock bool) *memzero.Scope {
	scope := memzero.NewScope()
	for _, r := range desc.Roles {
		if !r.Secret || r.Kind != domain.ArgBytes {
			continue
		}
		if arg, ok := args.Get(r.Name); ok && arg.Buffer.Present() {
			scope.Track(arg.Buffer.Bytes(), lock)
		}
	}
	return scope
}
