// Package registry provides the Engine's function table: the central
// mapping from (name, signature) keys to native function adapters.
//
// The table is populated during single-threaded setup, before any script
// evaluation begins. Registering under a key that is already present
// replaces the earlier entry deterministically; a later registration
// always wins. Packages merge into a table additively and never assume
// exclusive ownership of it.
package registry
