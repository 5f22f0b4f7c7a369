// Package nativefn erases the static shape of an arbitrary Go function
// (its arity, receiver style and fallibility) into one uniform callable
// that an embedding script runtime can invoke over dynamic cty values.
//
// A Func is produced once, at registration time, by reflecting over the
// native function. Invocation converts each positional cty.Value into the
// native parameter type the function declares, calls it, and converts the
// result back. Functions whose first parameter is a pointer are "method
// style": that parameter is bound to the call site's first value and
// mutations through it are observable after the call returns.
package nativefn
