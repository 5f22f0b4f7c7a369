package registry

// Reserved registration keys other components look up by convention.
const (
	// KeywordPrint is the conversion-to-display-string entry point.
	KeywordPrint = "print"
	// FuncToString is the explicit to-string conversion function.
	FuncToString = "to_string"
	// KeywordDebug is the conversion-to-debug-string entry point.
	KeywordDebug = "debug"
)

// Indexer registration names. Index-operator syntax (obj[key] and
// obj[key] = value) dispatches through these.
const (
	IndexerGetName = "index$get"
	IndexerSetName = "index$set"
)

// PropGetter returns the registration name for a named property read.
func PropGetter(name string) string { return "get$" + name }

// PropSetter returns the registration name for a named property write.
func PropSetter(name string) string { return "set$" + name }
