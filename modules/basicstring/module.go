// Package basicstring is the built-in string and printing package: it
// registers stringify (print, to_string), debug-stringify (debug) and
// the string concatenation and append operators for every value kind
// the runtime supports.
package basicstring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/scriptbind/nativefn"
	"github.com/vk/scriptbind/registry"
)

// Options selects which optional value kinds get registrations. It
// replaces compile-time feature flags: the same package source adapts to
// runtimes built without numeric widths, floating point, arrays or
// object maps.
type Options struct {
	// SizedIntegers registers the fixed-width integer overloads
	// (int8 through uint64).
	SizedIntegers bool
	// Floats registers float32 and float64 overloads.
	Floats bool
	// Lists registers array-value overloads.
	Lists bool
	// Maps registers object-map overloads.
	Maps bool
}

// DefaultOptions enables every optional kind.
func DefaultOptions() Options {
	return Options{SizedIntegers: true, Floats: true, Lists: true, Maps: true}
}

// Module implements registry.Package.
type Module struct {
	Options Options
}

// New creates the package with the given options.
func New(opts Options) *Module {
	return &Module{Options: opts}
}

// Name identifies the bundle in function tables and tooling.
func (m *Module) Name() string { return "basic_string" }

// Description is the one-line package summary.
func (m *Module) Description() string {
	return "Basic string utilities, including printing."
}

// Init populates lib. Calling it twice on the same table re-registers
// the same entries; the table's last-write-wins rule makes that a no-op.
func (m *Module) Init(lib *registry.Table) {
	register[int](lib, scalar[int], scalar[int])
	register[bool](lib, scalar[bool], scalar[bool])
	register[string](lib, func(s string) string { return s }, strconv.Quote)

	// The empty call and the unit value both stringify to the empty
	// string. An explicit special case, not an error.
	lib.SetFn(registry.KeywordPrint, func() string { return "" })
	lib.SetFn(registry.KeywordPrint, func(nativefn.Unit) string { return "" })
	lib.SetFn(registry.FuncToString, func(nativefn.Unit) string { return "" })
	lib.SetFn(registry.KeywordDebug, func(nativefn.Unit) string { return "" })

	if m.Options.SizedIntegers {
		register[int8](lib, scalar[int8], scalar[int8])
		register[uint8](lib, scalar[uint8], scalar[uint8])
		register[int16](lib, scalar[int16], scalar[int16])
		register[uint16](lib, scalar[uint16], scalar[uint16])
		register[uint32](lib, scalar[uint32], scalar[uint32])
		register[int64](lib, scalar[int64], scalar[int64])
		register[uint64](lib, scalar[uint64], scalar[uint64])
	}

	// int32 is rune, so the char registrations double as the int32
	// overloads and must come after the sized-integer block.
	register[rune](lib, func(ch rune) string { return string(ch) },
		func(ch rune) string { return strconv.QuoteRune(ch) })

	if m.Options.Floats {
		register[float32](lib, scalar[float32], scalar[float32])
		register[float64](lib, scalar[float64], scalar[float64])
	}

	if m.Options.Lists {
		register[[]any](lib, debugList, debugList)
	}

	if m.Options.Maps {
		register[map[string]any](lib, debugMap, debugMap)
	}

	lib.SetFn("+", func(s string, ch rune) string { return s + string(ch) })
	lib.SetFn("+", func(s, s2 string) string { return s + s2 })
	lib.SetFn("append", func(s *string, ch rune) { *s += string(ch) })
	lib.SetFn("append", func(s *string, s2 string) { *s += s2 })
}

// register installs the stringify and debug-stringify entry points for
// one value kind.
func register[T any](lib *registry.Table, stringify, debug func(T) string) {
	lib.SetFn(registry.KeywordPrint, stringify)
	lib.SetFn(registry.FuncToString, stringify)
	lib.SetFn(registry.KeywordDebug, debug)
}

func scalar[T any](x T) string { return fmt.Sprint(x) }

// debugValue renders one dynamic payload in debug form: strings quoted,
// the unit value as (), containers recursively.
func debugValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "()"
	case string:
		return strconv.Quote(x)
	case []any:
		return debugList(x)
	case map[string]any:
		return debugMap(x)
	default:
		return fmt.Sprint(x)
	}
}

func debugList(a []any) string {
	parts := make([]string, len(a))
	for i, e := range a {
		parts[i] = debugValue(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// debugMap renders an object map with the leading # marker that
// distinguishes maps from plain containers at the text level. Keys are
// sorted for stable output.
func debugMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Quote(k) + ": " + debugValue(m[k])
	}
	return "#{" + strings.Join(parts, ", ") + "}"
}
