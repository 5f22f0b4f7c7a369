package nativefn

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// fromCty converts one positional dynamic value into the native type an
// adapter expects. Opaque native types must arrive as matching capsule
// values; everything else decodes through gocty or the recursive native
// converter.
func (tr *TypeRegistry) fromCty(v cty.Value, want reflect.Type) (reflect.Value, error) {
	switch want {
	case ctyValueType:
		return reflect.ValueOf(v), nil
	case unitType:
		if !isUnit(v) {
			return reflect.Value{}, fmt.Errorf("expected the unit value, got %s", tr.ValueTypeName(v))
		}
		return reflect.ValueOf(Unit{}), nil
	case anyType:
		native, err := tr.ctyToNative(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if native == nil {
			return reflect.Zero(anyType), nil
		}
		return reflect.ValueOf(native).Convert(anyType), nil
	}

	if isOpaque(want) {
		ptr, err := tr.unbox(v, want)
		if err != nil {
			return reflect.Value{}, err
		}
		if want.Kind() == reflect.Pointer {
			return ptr, nil
		}
		return ptr.Elem(), nil
	}

	switch want.Kind() {
	case reflect.Slice, reflect.Map:
		if keyName(want) == "array" || keyName(want) == "map" {
			native, err := tr.ctyToNative(v)
			if err != nil {
				return reflect.Value{}, err
			}
			if native == nil {
				return reflect.Zero(want), nil
			}
			rv := reflect.ValueOf(native)
			if !rv.Type().AssignableTo(want) {
				return reflect.Value{}, fmt.Errorf("cannot use %s as %s", tr.ValueTypeName(v), keyName(want))
			}
			return rv, nil
		}
	}

	ptr := reflect.New(want)
	if err := gocty.FromCtyValue(v, ptr.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return ptr.Elem(), nil
}

// unbox extracts the encapsulated *T from a capsule value whose native
// type matches want (T or *T).
func (tr *TypeRegistry) unbox(v cty.Value, want reflect.Type) (reflect.Value, error) {
	elem := want
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if v == cty.NilVal || v.IsNull() || !v.Type().IsCapsuleType() {
		return reflect.Value{}, fmt.Errorf("expected %s, got %s", keyName(elem), tr.ValueTypeName(v))
	}
	if v.Type().EncapsulatedType() != elem {
		return reflect.Value{}, fmt.Errorf("expected %s, got %s", keyName(elem), tr.ValueTypeName(v))
	}
	return reflect.ValueOf(v.EncapsulatedValue()), nil
}

// toCty converts a native result back into a dynamic value. Opaque native
// values are boxed as capsules; nil results become the unit value.
func (tr *TypeRegistry) toCty(native any) (cty.Value, error) {
	if native == nil {
		return cty.NilVal, nil
	}
	switch v := native.(type) {
	case cty.Value:
		return v, nil
	case Unit:
		return cty.NilVal, nil
	}

	rv := reflect.ValueOf(native)
	if isOpaque(rv.Type()) {
		if rv.Kind() != reflect.Pointer {
			// Box a copy so the capsule owns its payload.
			ptr := reflect.New(rv.Type())
			ptr.Elem().Set(rv)
			rv = ptr
		}
		if rv.IsNil() {
			return cty.NilVal, nil
		}
		return cty.CapsuleVal(tr.capsuleFor(rv.Type()), rv.Interface()), nil
	}

	return tr.nativeToCty(native)
}

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart. Capsule values resolve to the encapsulated native pointer.
func (tr *TypeRegistry) ctyToNative(v cty.Value) (any, error) {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		// float64 is the most general native shape for an untyped number.
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, fmt.Errorf("could not convert bool: %w", err)
		}
		return b, nil

	case ty.IsCapsuleType():
		return v.EncapsulatedValue(), nil

	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		slice := make([]any, 0)
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			nv, err := tr.ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			slice = append(slice, nv)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, ev := it.Element()
			keyStr := key.AsString()
			nv, err := tr.ctyToNative(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", keyStr, err)
			}
			goMap[keyStr] = nv
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// nativeToCty is the inverse of ctyToNative for structural values whose
// element types are not statically known to gocty.
func (tr *TypeRegistry) nativeToCty(native any) (cty.Value, error) {
	switch v := native.(type) {
	case nil:
		return cty.NilVal, nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(v))
		for _, e := range v {
			ev, err := tr.toCty(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, ev)
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(v) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(v))
		for k, e := range v {
			ev, err := tr.toCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("in attribute %q: %w", k, err)
			}
			attrs[k] = ev
		}
		return cty.ObjectVal(attrs), nil
	}

	ty, err := gocty.ImpliedType(native)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer value type: %w", err)
	}
	return gocty.ToCtyValue(native, ty)
}

// isUnit reports whether v is the runtime's unit (null) value.
func isUnit(v cty.Value) bool {
	return v == cty.NilVal || v.IsNull()
}
