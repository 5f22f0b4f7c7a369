package nativefn

import (
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Unit is the native stand-in for the runtime's unit (null) value. A
// parameter declared as Unit accepts only the null dynamic value, and a
// Unit result converts back to null.
type Unit struct{}

var (
	unitType     = reflect.TypeOf(Unit{})
	ctyValueType = reflect.TypeOf(cty.Value{})
	anyType      = reflect.TypeOf((*any)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// TypeRegistry interns one cty capsule type per opaque native type and
// records optional pretty display names. Capsule identity is what makes a
// native struct round-trip through the dynamic value system: the same
// reflect.Type always maps to the same capsule type, so values boxed by
// one adapter can be unboxed by another.
//
// A TypeRegistry is not safe for concurrent mutation; registration is
// single-threaded setup by contract.
type TypeRegistry struct {
	capsules map[reflect.Type]cty.Type
	pretty   map[reflect.Type]string
}

// NewTypeRegistry creates an empty type registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		capsules: make(map[reflect.Type]cty.Type),
		pretty:   make(map[reflect.Type]string),
	}
}

// Register records the type identity of rt under its default,
// reflect-derived name.
func (tr *TypeRegistry) Register(rt reflect.Type) {
	tr.capsuleFor(rt)
}

// RegisterWithName records rt under a pretty display name. Calling it
// again for the same type overwrites the earlier name; the last write
// wins.
func (tr *TypeRegistry) RegisterWithName(rt reflect.Type, name string) {
	tr.capsuleFor(rt)
	tr.pretty[rt] = name
}

// NameOf returns the display name for a native type: the pretty name if
// one was registered, otherwise the reflect-derived default.
func (tr *TypeRegistry) NameOf(rt reflect.Type) string {
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if name, ok := tr.pretty[rt]; ok {
		return name
	}
	return keyName(rt)
}

// ValueTypeName reports the display name of a dynamic value's runtime
// type, resolving capsule values to their (possibly pretty) native name.
func (tr *TypeRegistry) ValueTypeName(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() {
		return "unit"
	}
	ty := v.Type()
	if ty.IsCapsuleType() {
		return tr.NameOf(ty.EncapsulatedType())
	}
	return ty.FriendlyName()
}

// capsuleFor interns (creating on first use) the capsule type carrying
// values of the opaque native type rt. rt must be a struct type.
func (tr *TypeRegistry) capsuleFor(rt reflect.Type) cty.Type {
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if ty, ok := tr.capsules[rt]; ok {
		return ty
	}
	ty := cty.Capsule(rt.String(), rt)
	tr.capsules[rt] = ty
	return ty
}

// isOpaque reports whether values of rt are carried as capsules rather
// than converted to a structural cty value.
func isOpaque(rt reflect.Type) bool {
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.Kind() == reflect.Struct && rt != ctyValueType && rt != unitType
}

// keyName is the canonical, signature-key spelling of a native parameter
// type. It is deliberately independent of pretty names so that function
// table keys do not depend on registration order.
func keyName(rt reflect.Type) string {
	switch rt {
	case unitType:
		return "unit"
	case ctyValueType:
		return "any"
	case anyType:
		return "any"
	}
	switch rt.Kind() {
	case reflect.Slice:
		if rt.Elem() == anyType {
			return "array"
		}
	case reflect.Map:
		if rt.Key().Kind() == reflect.String && rt.Elem() == anyType {
			return "map"
		}
	case reflect.Pointer:
		return keyName(rt.Elem())
	}
	return rt.String()
}
