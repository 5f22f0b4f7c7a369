// Package scriptbind bridges native Go types and functions into the
// function table of a dynamically-typed embedded script runtime.
//
// Host code registers plain Go functions, methods, property accessors
// and indexers; scriptbind erases their static shape into uniform
// adapters (package nativefn) keyed by name and signature in a function
// table (package registry) that an embedding evaluator dispatches
// against. Custom types register through the fluent TypeBuilder, and
// ready-made bundles of registrations ship as packages (modules/...).
//
// All registration is synchronous, single-threaded setup performed
// before script evaluation begins.
package scriptbind
