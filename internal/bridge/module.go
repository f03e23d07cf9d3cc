package bridge

import (
	"context"
	"fmt"
	"sort"

	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
)

// ModuleName is the name the operations are published under.
const ModuleName = "sodium"

// EntryPoint is the managed-side callable for one operation.
type EntryPoint func(ctx context.Context, args ...any) domain.Result

// Registrar is a host runtime's export table.
type Registrar interface {
	Export(name string, fn EntryPoint) error
}

// Module advertises the bridge's operations to a host.
type Module struct {
	b *Bridge
}

// Module returns the registration shim for b.
func (b *Bridge) Module() *Module { return &Module{b: b} }

func (m *Module) Name() string { return ModuleName }

// Register exports every operation, plus "sodium_init", to r. Heavy
// operations are exported through the worker pool.
func (m *Module) Register(r Registrar) error {
	if err := r.Export("sodium_init", func(context.Context, ...any) domain.Result {
		return domain.Success(m.b.Init())
	}); err != nil {
		return fmt.Errorf("export sodium_init: %w", err)
	}
	for _, d := range m.b.table {
		if err := r.Export(d.Name, m.entry(d)); err != nil {
			return fmt.Errorf("export %s: %w", d.Name, err)
		}
	}
	return nil
}

func (m *Module) entry(d domain.Descriptor) EntryPoint {
	name := d.Name
	if d.Heavy {
		return func(ctx context.Context, args ...any) domain.Result {
			select {
			case res := <-m.b.Go(ctx, name, args...):
				return res
			case <-ctx.Done():
				return domain.Failure(errors.New(errors.PhaseSchedule, errors.KindUnavailable).
					Op(name).Cause(ctx.Err()).Build())
			}
		}
	}
	return func(ctx context.Context, args ...any) domain.Result {
		return m.b.Call(ctx, name, args...)
	}
}

// Exports is an in-process Registrar keyed by name.
type Exports map[string]EntryPoint

// Export adds fn under name; names must be unique.
func (e Exports) Export(name string, fn EntryPoint) error {
	if _, dup := e[name]; dup {
		return fmt.Errorf("duplicate export %q", name)
	}
	e[name] = fn
	return nil
}

// Call invokes an exported entry point, reporting unknown names as
// unsupported operations.
func (e Exports) Call(ctx context.Context, name string, args ...any) domain.Result {
	fn, ok := e[name]
	if !ok {
		return domain.Failure(errors.Unsupported(name))
	}
	return fn(ctx, args...)
}

// Names returns the exported names in sorted order.
func (e Exports) Names() []string {
	out := make([]string, 0, len(e))
	for n := range e {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
