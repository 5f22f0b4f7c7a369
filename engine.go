package scriptbind

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/scriptbind/nativefn"
	"github.com/vk/scriptbind/registry"
)

// Engine owns one function table and exposes the registration surface an
// embedding runtime builds its global function table through. The
// evaluator itself is an external collaborator; it dispatches calls via
// Table().Resolve or the Call convenience method.
type Engine struct {
	table *registry.Table
}

// New creates an Engine with an empty function table.
func New() *Engine {
	return &Engine{table: registry.New()}
}

// Table returns the engine's function table.
func (e *Engine) Table() *registry.Table { return e.table }

// RegisterFn registers a native function under name. Arity, receiver
// style and fallibility are inferred from fn's static shape. It panics
// if fn is not a supported shape.
func (e *Engine) RegisterFn(name string, fn any) *Engine {
	e.table.SetFn(name, fn)
	return e
}

// RegisterGet registers a property getter exposed to scripts as a named
// property read. The getter must take exactly one parameter, a pointer
// receiver; the runtime's value model requires mutable access to the
// owning slot even for reads.
func (e *Engine) RegisterGet(name string, getter any) *Engine {
	e.table.Set(accessor(registry.PropGetter(name), getter, 1, false, "getter", e.table.Types()))
	return e
}

// RegisterGetResult is RegisterGet for a getter that may fail.
func (e *Engine) RegisterGetResult(name string, getter any) *Engine {
	e.table.Set(accessor(registry.PropGetter(name), getter, 1, true, "getter", e.table.Types()))
	return e
}

// RegisterSet registers a property setter taking the receiver and the
// new value.
func (e *Engine) RegisterSet(name string, setter any) *Engine {
	e.table.Set(accessor(registry.PropSetter(name), setter, 2, false, "setter", e.table.Types()))
	return e
}

// RegisterSetResult is RegisterSet for a setter that may fail.
func (e *Engine) RegisterSetResult(name string, setter any) *Engine {
	e.table.Set(accessor(registry.PropSetter(name), setter, 2, true, "setter", e.table.Types()))
	return e
}

// RegisterGetSet registers a getter and setter pair under one property
// name.
func (e *Engine) RegisterGetSet(name string, getter, setter any) *Engine {
	return e.RegisterGet(name, getter).RegisterSet(name, setter)
}

// RegisterIndexerGet registers an index-operator read (obj[key]). The
// function takes the pointer receiver and the index value.
func (e *Engine) RegisterIndexerGet(fn any) *Engine {
	e.table.Set(accessor(registry.IndexerGetName, fn, 2, false, "indexer getter", e.table.Types()))
	return e
}

// RegisterIndexerGetResult is RegisterIndexerGet for a fallible getter.
func (e *Engine) RegisterIndexerGetResult(fn any) *Engine {
	e.table.Set(accessor(registry.IndexerGetName, fn, 2, true, "indexer getter", e.table.Types()))
	return e
}

// RegisterIndexerSet registers an index-operator write
// (obj[key] = value). The function takes the pointer receiver, the index
// and the new value.
func (e *Engine) RegisterIndexerSet(fn any) *Engine {
	e.table.Set(accessor(registry.IndexerSetName, fn, 3, false, "indexer setter", e.table.Types()))
	return e
}

// RegisterIndexerSetResult is RegisterIndexerSet for a fallible setter.
func (e *Engine) RegisterIndexerSetResult(fn any) *Engine {
	e.table.Set(accessor(registry.IndexerSetName, fn, 3, true, "indexer setter", e.table.Types()))
	return e
}

// RegisterIndexerGetSet registers an index getter and setter pair.
func (e *Engine) RegisterIndexerGetSet(getFn, setFn any) *Engine {
	return e.RegisterIndexerGet(getFn).RegisterIndexerSet(setFn)
}

// ImportPackage merges a package's registrations into the engine's
// function table. Importing is additive and repeatable.
func (e *Engine) ImportPackage(p registry.Package) *Engine {
	e.table.Merge(p)
	return e
}

// TypeName reports the display name of a dynamic value's runtime type,
// honoring pretty names registered for native types.
func (e *Engine) TypeName(v cty.Value) string {
	return e.table.Types().ValueTypeName(v)
}

// Call dispatches a call through the function table. It exists for
// embedders and tests; a full evaluator would resolve against the table
// directly.
func (e *Engine) Call(name string, args ...cty.Value) (cty.Value, error) {
	return e.table.Call(name, args...)
}

// RegisterType registers T's type identity under its default,
// reflect-derived name.
func RegisterType[T any](e *Engine) *Engine {
	e.table.Types().Register(reflect.TypeFor[T]())
	return e
}

// RegisterTypeWithName registers T's type identity under a pretty
// display name.
func RegisterTypeWithName[T any](e *Engine, name string) *Engine {
	e.table.Types().RegisterWithName(reflect.TypeFor[T](), name)
	return e
}

// accessor adapts an accessor function and enforces its shape: exact
// arity, pointer receiver, and the declared fallibility. Violations are
// programmer errors and panic at registration time.
func accessor(name string, fn any, arity int, fallible bool, kind string, types *nativefn.TypeRegistry) *nativefn.Func {
	f := nativefn.MustNew(name, fn, types)
	if f.Arity() != arity {
		panic(fmt.Sprintf("%s %q must take exactly %d parameter(s), got %d", kind, name, arity, f.Arity()))
	}
	if !f.IsMethod() {
		panic(fmt.Sprintf("%s %q must take its receiver as a pointer", kind, name))
	}
	if f.IsFallible() != fallible {
		if fallible {
			panic(fmt.Sprintf("%s %q must return an error as its last result", kind, name))
		}
		panic(fmt.Sprintf("%s %q must not return an error; use the Result variant", kind, name))
	}
	return f
}
