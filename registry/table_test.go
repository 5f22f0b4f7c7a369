package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestSetLastWriteWins(t *testing.T) {
	tbl := New()

	tbl.SetFn("answer", func() int { return 1 })
	require.Equal(t, 1, tbl.Len())

	// Identical (name, signature) key: the later registration replaces
	// the earlier one, deterministically and without error.
	tbl.SetFn("answer", func() int { return 42 })
	assert.Equal(t, 1, tbl.Len())

	got, err := tbl.Call("answer")
	require.NoError(t, err)
	assert.True(t, cty.NumberIntVal(42).RawEquals(got))
}

func TestSetDistinctSignatures(t *testing.T) {
	tbl := New()

	tbl.SetFn("+", func(a, b int) int { return a + b })
	tbl.SetFn("+", func(a, b string) string { return a + b })
	assert.Equal(t, 2, tbl.Len())

	got, err := tbl.Call("+", cty.NumberIntVal(1), cty.NumberIntVal(2))
	require.NoError(t, err)
	assert.True(t, cty.NumberIntVal(3).RawEquals(got))

	got, err = tbl.Call("+", cty.StringVal("a"), cty.StringVal("b"))
	require.NoError(t, err)
	assert.Equal(t, "ab", got.AsString())
}

func TestGetAndKeys(t *testing.T) {
	tbl := New()
	tbl.SetFn("print", func(s string) string { return s })

	f, ok := tbl.Get("print (string)")
	require.True(t, ok)
	assert.Equal(t, "print", f.Name())

	_, ok = tbl.Get("print (int)")
	assert.False(t, ok)

	assert.Equal(t, []string{"print (string)"}, tbl.Keys())
}

func TestResolve(t *testing.T) {
	tbl := New()
	tbl.SetFn("f", func(n int) string { return "int" })
	tbl.SetFn("f", func(s string) string { return "string" })
	tbl.SetFn("f", func(a, b int) string { return "two" })

	t.Run("selects by argument type", func(t *testing.T) {
		got, err := tbl.Call("f", cty.StringVal("x"))
		require.NoError(t, err)
		assert.Equal(t, "string", got.AsString())
	})

	t.Run("selects by arity", func(t *testing.T) {
		got, err := tbl.Call("f", cty.NumberIntVal(1), cty.NumberIntVal(2))
		require.NoError(t, err)
		assert.Equal(t, "two", got.AsString())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := tbl.Call("missing")
		assert.ErrorContains(t, err, "no function")
	})

	t.Run("no matching arity", func(t *testing.T) {
		_, err := tbl.Call("f", cty.True, cty.True, cty.True)
		assert.ErrorContains(t, err, "no function")
	})
}

type stubPackage struct {
	inits int
}

func (p *stubPackage) Name() string        { return "stub" }
func (p *stubPackage) Description() string { return "Stub package for table tests." }
func (p *stubPackage) Init(lib *Table) {
	p.inits++
	lib.SetFn("stub_fn", func() string { return "stub" })
	lib.SetFn("stub_fn", func(s string) string { return s })
}

func TestMergeIdempotence(t *testing.T) {
	tbl := New()
	pkg := &stubPackage{}

	tbl.Merge(pkg)
	keysOnce := tbl.Keys()
	lenOnce := tbl.Len()

	// Merging the same package again re-registers identical keys and
	// leaves the table observably unchanged.
	tbl.Merge(pkg)
	assert.Equal(t, 2, pkg.inits)
	assert.Equal(t, lenOnce, tbl.Len())
	assert.Equal(t, keysOnce, tbl.Keys())

	got, err := tbl.Call("stub_fn")
	require.NoError(t, err)
	assert.Equal(t, "stub", got.AsString())
}

func TestReservedNames(t *testing.T) {
	assert.Equal(t, "print", KeywordPrint)
	assert.Equal(t, "to_string", FuncToString)
	assert.Equal(t, "debug", KeywordDebug)
	assert.Equal(t, "get$value", PropGetter("value"))
	assert.Equal(t, "set$value", PropSetter("value"))
}
