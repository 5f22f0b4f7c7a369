package scriptbind

import (
	"fmt"
	"reflect"

	"github.com/vk/scriptbind/nativefn"
	"github.com/vk/scriptbind/registry"
)

// CustomType is implemented by native types that know how to register
// their own methods, getters, setters and indexers. Build receives the
// type's builder and must not rely on the receiver value: it is called
// on a zero instance.
type CustomType interface {
	Build(*TypeBuilder)
}

// BuildType registers a custom type with the engine by running T's Build
// method against a fresh TypeBuilder.
//
// Finalization is unconditional: the type identity and every member
// accumulated by Build are registered exactly once when BuildType
// returns, on every exit path out of Build, a panic included.
func BuildType[T CustomType](e *Engine) *Engine {
	var proto T
	b := &TypeBuilder{
		engine: e,
		typ:    derefType(reflect.TypeFor[T]()),
	}
	defer b.finalize()
	proto.Build(b)
	return e
}

// TypeBuilder accumulates the member registrations for one native type
// and flushes them into the engine's function table exactly once, when
// the enclosing BuildType call returns. All With* methods return the
// builder for chaining.
type TypeBuilder struct {
	engine  *Engine
	typ     reflect.Type
	name    string
	pending []*nativefn.Func
	done    bool
}

// WithName sets a pretty display name for the type, used by the
// runtime's type_of query instead of the reflect-derived default. When
// called more than once the last call wins.
func (b *TypeBuilder) WithName(name string) *TypeBuilder {
	b.name = name
	return b
}

// WithFn registers an infallible native function under name. Arity and
// receiver style are inferred from fn's static shape.
func (b *TypeBuilder) WithFn(name string, fn any) *TypeBuilder {
	f := nativefn.MustNew(name, fn, b.types())
	if f.IsFallible() {
		panic(fmt.Sprintf("function %q returns an error; use WithResultFn", name))
	}
	return b.push(f)
}

// WithResultFn registers a native function that may fail. Its failure is
// surfaced to the script-level caller unmodified.
func (b *TypeBuilder) WithResultFn(name string, fn any) *TypeBuilder {
	f := nativefn.MustNew(name, fn, b.types())
	if !f.IsFallible() {
		panic(fmt.Sprintf("function %q does not return an error; use WithFn", name))
	}
	return b.push(f)
}

// WithGet registers a property getter. The getter takes the receiver as
// a pointer and nothing else.
func (b *TypeBuilder) WithGet(name string, getter any) *TypeBuilder {
	return b.push(accessor(registry.PropGetter(name), getter, 1, false, "getter", b.types()))
}

// WithGetResult is WithGet for a getter that may fail.
func (b *TypeBuilder) WithGetResult(name string, getter any) *TypeBuilder {
	return b.push(accessor(registry.PropGetter(name), getter, 1, true, "getter", b.types()))
}

// WithSet registers a property setter taking the receiver and the new
// value.
func (b *TypeBuilder) WithSet(name string, setter any) *TypeBuilder {
	return b.push(accessor(registry.PropSetter(name), setter, 2, false, "setter", b.types()))
}

// WithSetResult is WithSet for a setter that may fail.
func (b *TypeBuilder) WithSetResult(name string, setter any) *TypeBuilder {
	return b.push(accessor(registry.PropSetter(name), setter, 2, true, "setter", b.types()))
}

// WithGetSet registers a getter and setter pair under one property name.
func (b *TypeBuilder) WithGetSet(name string, getter, setter any) *TypeBuilder {
	return b.WithGet(name, getter).WithSet(name, setter)
}

// WithIndexerGet registers an index-operator read taking the receiver
// and the index value.
func (b *TypeBuilder) WithIndexerGet(fn any) *TypeBuilder {
	return b.push(accessor(registry.IndexerGetName, fn, 2, false, "indexer getter", b.types()))
}

// WithIndexerGetResult is WithIndexerGet for a fallible getter.
func (b *TypeBuilder) WithIndexerGetResult(fn any) *TypeBuilder {
	return b.push(accessor(registry.IndexerGetName, fn, 2, true, "indexer getter", b.types()))
}

// WithIndexerSet registers an index-operator write taking the receiver,
// the index and the new value.
func (b *TypeBuilder) WithIndexerSet(fn any) *TypeBuilder {
	return b.push(accessor(registry.IndexerSetName, fn, 3, false, "indexer setter", b.types()))
}

// WithIndexerSetResult is WithIndexerSet for a fallible setter.
func (b *TypeBuilder) WithIndexerSetResult(fn any) *TypeBuilder {
	return b.push(accessor(registry.IndexerSetName, fn, 3, true, "indexer setter", b.types()))
}

// WithIndexerGetSet registers an index getter and setter pair.
func (b *TypeBuilder) WithIndexerGetSet(getFn, setFn any) *TypeBuilder {
	return b.WithIndexerGet(getFn).WithIndexerSet(setFn)
}

func (b *TypeBuilder) push(f *nativefn.Func) *TypeBuilder {
	if b.done {
		panic("type builder used after finalization")
	}
	b.pending = append(b.pending, f)
	return b
}

func (b *TypeBuilder) types() *nativefn.TypeRegistry {
	return b.engine.table.Types()
}

// finalize registers the type identity (under the pretty name if one was
// recorded) and flushes the accumulated members into the table in call
// order. It runs exactly once.
func (b *TypeBuilder) finalize() {
	if b.done {
		return
	}
	b.done = true
	if b.name != "" {
		b.types().RegisterWithName(b.typ, b.name)
	} else {
		b.types().Register(b.typ)
	}
	for _, f := range b.pending {
		b.engine.table.Set(f)
	}
	b.pending = nil
}

func derefType(rt reflect.Type) reflect.Type {
	if rt.Kind() == reflect.Pointer {
		return rt.Elem()
	}
	return rt
}
