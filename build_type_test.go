package scriptbind_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/scriptbind"
	"github.com/vk/scriptbind/registry"
)

type testStruct struct {
	field int
}

func newTestStruct() testStruct { return testStruct{field: 1} }

func (testStruct) Build(b *scriptbind.TypeBuilder) {
	b.WithName("TestStruct").
		WithFn("new_ts", newTestStruct).
		WithFn("update", func(ts *testStruct, offset int) { ts.field += offset }).
		WithGetSet("value",
			func(ts *testStruct) int { return ts.field },
			func(ts *testStruct, v int) { ts.field = v })
}

func TestBuildTypeMethods(t *testing.T) {
	e := scriptbind.New()
	scriptbind.BuildType[testStruct](e)

	v, err := e.Call("new_ts")
	require.NoError(t, err)
	assert.Equal(t, "TestStruct", e.TypeName(v))

	_, err = e.Call("update", v, cty.NumberIntVal(41))
	require.NoError(t, err)

	got, err := e.Call(registry.PropGetter("value"), v)
	require.NoError(t, err)
	assert.True(t, cty.NumberIntVal(42).RawEquals(got))
}

func TestBuildTypePropertyReadWriteRead(t *testing.T) {
	e := scriptbind.New()
	scriptbind.BuildType[testStruct](e)

	v, err := e.Call("new_ts")
	require.NoError(t, err)

	got, err := e.Call(registry.PropGetter("value"), v)
	require.NoError(t, err)
	assert.True(t, cty.NumberIntVal(1).RawEquals(got))

	_, err = e.Call(registry.PropSetter("value"), v, cty.NumberIntVal(5))
	require.NoError(t, err)

	// The write must be observable on the second read of the same value.
	got, err = e.Call(registry.PropGetter("value"), v)
	require.NoError(t, err)
	assert.True(t, cty.NumberIntVal(5).RawEquals(got))
}

type renamed struct{}

func (renamed) Build(b *scriptbind.TypeBuilder) {
	b.WithName("First").WithName("Second").WithFn("new_renamed", func() renamed { return renamed{} })
}

func TestBuildTypeLastNameWins(t *testing.T) {
	e := scriptbind.New()
	scriptbind.BuildType[renamed](e)

	v, err := e.Call("new_renamed")
	require.NoError(t, err)
	assert.Equal(t, "Second", e.TypeName(v))
}

type bare struct{}

func (bare) Build(*scriptbind.TypeBuilder) {}

func TestBuildTypeBareFinalization(t *testing.T) {
	e := scriptbind.New()
	// Zero member registrations still register the type identity under
	// its default name.
	scriptbind.BuildType[bare](e)
	e.RegisterFn("new_bare", func() bare { return bare{} })

	v, err := e.Call("new_bare")
	require.NoError(t, err)
	assert.Equal(t, "scriptbind_test.bare", e.TypeName(v))
}

type panicky struct{}

func (panicky) Build(b *scriptbind.TypeBuilder) {
	b.WithName("Panicky")
	panic("interrupted build")
}

func TestBuildTypeFinalizesOnPanic(t *testing.T) {
	e := scriptbind.New()
	require.Panics(t, func() { scriptbind.BuildType[panicky](e) })

	// Finalization ran on the panic exit path: the pretty name is
	// registered.
	e.RegisterFn("new_panicky", func() panicky { return panicky{} })
	v, err := e.Call("new_panicky")
	require.NoError(t, err)
	assert.Equal(t, "Panicky", e.TypeName(v))
}

type ledger struct {
	entries map[string]int
}

func (ledger) Build(b *scriptbind.TypeBuilder) {
	b.WithName("Ledger").
		WithFn("new_ledger", func() ledger { return ledger{entries: map[string]int{}} }).
		WithIndexerGetSet(
			func(l *ledger, key string) int { return l.entries[key] },
			func(l *ledger, key string, v int) { l.entries[key] = v })
}

func TestBuildTypeIndexers(t *testing.T) {
	e := scriptbind.New()
	scriptbind.BuildType[ledger](e)

	v, err := e.Call("new_ledger")
	require.NoError(t, err)

	_, err = e.Call(registry.IndexerSetName, v, cty.StringVal("a"), cty.NumberIntVal(3))
	require.NoError(t, err)

	got, err := e.Call(registry.IndexerGetName, v, cty.StringVal("a"))
	require.NoError(t, err)
	assert.True(t, cty.NumberIntVal(3).RawEquals(got))
}

type fallibleType struct{}

var errNegative = errors.New("negative value")

func (fallibleType) Build(b *scriptbind.TypeBuilder) {
	b.WithResultFn("check_sign", func(n int) (int, error) {
		if n < 0 {
			return 0, errNegative
		}
		return n, nil
	})
}

func TestBuildTypeResultFn(t *testing.T) {
	e := scriptbind.New()
	scriptbind.BuildType[fallibleType](e)

	got, err := e.Call("check_sign", cty.NumberIntVal(9))
	require.NoError(t, err)
	assert.True(t, cty.NumberIntVal(9).RawEquals(got))

	// The declared native failure crosses the bridge unwrapped.
	_, err = e.Call("check_sign", cty.NumberIntVal(-1))
	assert.Same(t, errNegative, err)
}

type wantsResultFn struct{}

func (wantsResultFn) Build(b *scriptbind.TypeBuilder) {
	b.WithFn("f", func() (int, error) { return 0, nil })
}

type wantsPlainFn struct{}

func (wantsPlainFn) Build(b *scriptbind.TypeBuilder) {
	b.WithResultFn("f", func() int { return 0 })
}

func TestBuildTypeFallibilityMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { scriptbind.BuildType[wantsResultFn](scriptbind.New()) })
	assert.Panics(t, func() { scriptbind.BuildType[wantsPlainFn](scriptbind.New()) })
}
