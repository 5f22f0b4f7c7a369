package registry

import (
	"fmt"
	"log/slog"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/scriptbind/nativefn"
)

// Package is a named, reusable bundle of native function registrations.
// A single package instance may be merged into many independent tables
// without being consumed; Init must be idempotent for identical inputs,
// which follows from the table's last-write-wins rule.
type Package interface {
	// Name is the stable registration key identifying the bundle.
	Name() string
	// Description is a one-line human-readable summary.
	Description() string
	// Init populates lib with this package's function adapters.
	Init(lib *Table)
}

// Table is a function table: an insertion-ordered map from signature key
// to native function adapter, plus the registry of native type
// identities.
//
// A Table is not internally locked. Registration is synchronous setup;
// callers sharing a table across goroutines must serialize externally.
type Table struct {
	funcs map[string]*nativefn.Func
	order []string
	types *nativefn.TypeRegistry
}

// New creates an empty function table.
func New() *Table {
	return &Table{
		funcs: make(map[string]*nativefn.Func),
		types: nativefn.NewTypeRegistry(),
	}
}

// Types returns the table's native type registry.
func (t *Table) Types() *nativefn.TypeRegistry { return t.types }

// Set inserts an adapter under its signature key. If the key is already
// present the earlier entry is replaced in place: the last registration
// wins and no error is raised.
func (t *Table) Set(f *nativefn.Func) {
	key := f.Key()
	if _, exists := t.funcs[key]; exists {
		slog.Debug("Replacing function table entry.", "key", key)
	} else {
		slog.Debug("Registering function table entry.", "key", key)
		t.order = append(t.order, key)
	}
	t.funcs[key] = f
}

// SetFn adapts fn under name and inserts it. It panics if fn is not a
// supported native function shape; misregistration is a programmer
// error.
func (t *Table) SetFn(name string, fn any) {
	t.Set(nativefn.MustNew(name, fn, t.types))
}

// Get returns the adapter registered under an exact signature key.
func (t *Table) Get(key string) (*nativefn.Func, bool) {
	f, ok := t.funcs[key]
	return f, ok
}

// Len reports the number of registered entries.
func (t *Table) Len() int { return len(t.funcs) }

// Keys returns all signature keys in registration order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// Funcs returns all registered adapters in registration order.
func (t *Table) Funcs() []*nativefn.Func {
	fns := make([]*nativefn.Func, 0, len(t.order))
	for _, key := range t.order {
		fns = append(fns, t.funcs[key])
	}
	return fns
}

// Resolve selects the adapter for a call to name with the given argument
// values. Candidates share the name and arity; an adapter whose declared
// parameter types exactly match the argument types is preferred, then the
// earliest-registered adapter the arguments can bind to.
func (t *Table) Resolve(name string, args []cty.Value) (*nativefn.Func, error) {
	var fallback *nativefn.Func
	for _, key := range t.order {
		f := t.funcs[key]
		if f.Name() != name || f.Arity() != len(args) {
			continue
		}
		exact, ok := f.Compatible(args)
		if !ok {
			continue
		}
		if exact {
			return f, nil
		}
		if fallback == nil {
			fallback = f
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, fmt.Errorf("no function %q matching %d argument(s)", name, len(args))
}

// Call resolves and invokes a registered function.
func (t *Table) Call(name string, args ...cty.Value) (cty.Value, error) {
	f, err := t.Resolve(name, args)
	if err != nil {
		return cty.NilVal, err
	}
	return f.Call(args)
}

// Merge registers a package's functions into the table. Merging is
// additive and repeatable.
func (t *Table) Merge(p Package) {
	slog.Debug("Merging package into function table.", "package", p.Name())
	p.Init(t)
}
