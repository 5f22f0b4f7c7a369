package nativefn

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Contract-violation errors. Both indicate that the call site's dispatch
// selected the wrong adapter; correct upstream signature matching makes
// them unreachable. They are surfaced as errors rather than panics so a
// misbehaving embedding cannot crash the host process.
var (
	// ErrArgCount reports an argument-count mismatch.
	ErrArgCount = errors.New("argument count mismatch")
	// ErrArgType reports an argument-type mismatch at some position.
	ErrArgType = errors.New("argument type mismatch")
)

// Func is the uniform callable produced from one native Go function. It
// records the function's arity, whether its first parameter is a mutable
// receiver, and whether it may fail, and invokes it over dynamic values.
type Func struct {
	name     string
	fn       reflect.Value
	types    *TypeRegistry
	params   []reflect.Type
	method   bool
	fallible bool
	returns  bool
}

// New reflects over fn and produces its adapter. fn must be a
// non-variadic function; pointer parameters are only permitted in the
// first (receiver) position; results must be one of: nothing, a value,
// an error, or a value and an error.
func New(name string, fn any, types *TypeRegistry) (*Func, error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("native function %q: not a function: %T", name, fn)
	}
	rt := rv.Type()
	if rt.IsVariadic() {
		return nil, fmt.Errorf("native function %q: variadic functions are not supported", name)
	}

	f := &Func{name: name, fn: rv, types: types}

	switch rt.NumOut() {
	case 0:
	case 1:
		if rt.Out(0) == errorType {
			f.fallible = true
		} else {
			f.returns = true
		}
	case 2:
		if rt.Out(1) != errorType {
			return nil, fmt.Errorf("native function %q: second result must be error, got %s", name, rt.Out(1))
		}
		if rt.Out(0) == errorType {
			return nil, fmt.Errorf("native function %q: first result must not be error", name)
		}
		f.returns = true
		f.fallible = true
	default:
		return nil, fmt.Errorf("native function %q: too many results (%d)", name, rt.NumOut())
	}

	f.params = make([]reflect.Type, rt.NumIn())
	for i := 0; i < rt.NumIn(); i++ {
		p := rt.In(i)
		if p.Kind() == reflect.Pointer {
			if i != 0 {
				return nil, fmt.Errorf("native function %q: pointer parameter only allowed in receiver position, found at %d", name, i)
			}
			f.method = true
		}
		if isOpaque(p) {
			types.Register(p)
		}
		f.params[i] = p
	}
	if f.returns && isOpaque(rt.Out(0)) {
		types.Register(rt.Out(0))
	}

	return f, nil
}

// MustNew is New, panicking on a malformed native function. Registration
// of an unsupported shape is a programmer error.
func MustNew(name string, fn any, types *TypeRegistry) *Func {
	f, err := New(name, fn, types)
	if err != nil {
		panic(err)
	}
	return f
}

// Name returns the registration name.
func (f *Func) Name() string { return f.name }

// Arity returns the number of parameters, the receiver included.
func (f *Func) Arity() int { return len(f.params) }

// IsMethod reports whether the first parameter is a mutable receiver.
func (f *Func) IsMethod() bool { return f.method }

// IsFallible reports whether the native function declares a failure path.
func (f *Func) IsFallible() bool { return f.fallible }

// Key returns the function-table key for this adapter's signature.
func (f *Func) Key() string {
	names := make([]string, len(f.params))
	for i, p := range f.params {
		names[i] = keyName(p)
	}
	return Key(f.name, names...)
}

// Key builds a function-table key from a name and native parameter type
// names, e.g. Key("+", "string", "int32") == "+ (string, int32)".
func Key(name string, params ...string) string {
	return name + " (" + strings.Join(params, ", ") + ")"
}

// Call invokes the native function over positional dynamic values and
// returns its result as a dynamic value.
//
// For method-style adapters whose receiver arrived as a plain (non
// capsule) value, the mutated receiver is written back into args[0], so
// the call site observes in-place mutation; capsule receivers mutate
// through the encapsulated pointer and need no write-back.
//
// A declared native failure is returned verbatim, never wrapped.
func (f *Func) Call(args []cty.Value) (cty.Value, error) {
	if len(args) != len(f.params) {
		return cty.NilVal, fmt.Errorf("%w: %s expects %d argument(s), got %d",
			ErrArgCount, f.name, len(f.params), len(args))
	}

	in := make([]reflect.Value, len(args))
	var recv reflect.Value
	recvBoxed := false
	for i, arg := range args {
		want := f.params[i]
		if i == 0 && f.method {
			ptr, boxed, err := f.bindReceiver(arg, want)
			if err != nil {
				return cty.NilVal, fmt.Errorf("%w: %s argument 0: %v", ErrArgType, f.name, err)
			}
			in[i], recv, recvBoxed = ptr, ptr, boxed
			continue
		}
		v, err := f.types.fromCty(arg, want)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%w: %s argument %d: %v", ErrArgType, f.name, i, err)
		}
		in[i] = v
	}

	out := f.fn.Call(in)

	if f.method && !recvBoxed {
		updated, err := f.types.toCty(recv.Elem().Interface())
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: cannot store mutated receiver: %w", f.name, err)
		}
		args[0] = updated
	}

	if f.fallible {
		if errv := out[len(out)-1]; !errv.IsNil() {
			return cty.NilVal, errv.Interface().(error)
		}
	}
	if f.returns {
		return f.types.toCty(out[0].Interface())
	}
	return cty.NilVal, nil
}

// bindReceiver produces the *T argument for the receiver slot. Capsule
// values bind their encapsulated pointer directly (boxed=true); plain
// values decode into a fresh allocation that is written back after the
// call.
func (f *Func) bindReceiver(arg cty.Value, want reflect.Type) (ptr reflect.Value, boxed bool, err error) {
	elem := want.Elem()
	if arg != cty.NilVal && !arg.IsNull() && arg.Type().IsCapsuleType() {
		p, err := f.types.unbox(arg, want)
		if err != nil {
			return reflect.Value{}, false, err
		}
		return p, true, nil
	}
	v, err := f.types.fromCty(arg, elem)
	if err != nil {
		return reflect.Value{}, false, err
	}
	p := reflect.New(elem)
	p.Elem().Set(v)
	return p, false, nil
}

// Compatible reports whether args can bind to this adapter's signature.
// exact is true when every argument's runtime type equals the declared
// parameter's implied dynamic type; ok is true when binding would succeed
// at all. The table's resolver prefers exact matches.
func (f *Func) Compatible(args []cty.Value) (exact, ok bool) {
	if len(args) != len(f.params) {
		return false, false
	}
	exact = true
	for i, arg := range args {
		want := f.params[i]
		if i == 0 && f.method {
			if _, _, err := f.bindReceiver(arg, want); err != nil {
				return false, false
			}
			if !f.argIsExact(arg, want.Elem()) {
				exact = false
			}
			continue
		}
		if _, err := f.types.fromCty(arg, want); err != nil {
			return false, false
		}
		if !f.argIsExact(arg, want) {
			exact = false
		}
	}
	return exact, true
}

// argIsExact reports whether arg's runtime type is the canonical dynamic
// type for the native parameter type.
func (f *Func) argIsExact(arg cty.Value, want reflect.Type) bool {
	if want == ctyValueType || want == anyType {
		return true
	}
	if want == unitType {
		return isUnit(arg)
	}
	if isUnit(arg) {
		return false
	}
	if isOpaque(want) {
		return arg.Type().IsCapsuleType() && arg.Type().EncapsulatedType() == want
	}
	switch want.Kind() {
	case reflect.String:
		return arg.Type() == cty.String
	case reflect.Bool:
		return arg.Type() == cty.Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return arg.Type() == cty.Number
	case reflect.Slice:
		return arg.Type().IsListType() || arg.Type().IsTupleType()
	case reflect.Map:
		return arg.Type().IsMapType() || arg.Type().IsObjectType()
	}
	return false
}
