package flock_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/flock/internal/engine/flock"
	"go.trai.ch/zerr"
)

// counter returns a rule that yields val and counts its invocations.
func counter(val any) (flock.Rule, *int) {
	calls := 0
	return func() (any, error) {
		calls++
		return val, nil
	}, &calls
}

func TestDict_SimpleValues(t *testing.T) {
	d := flock.NewDict()
	assert.Equal(t, 0, d.Len())

	require.NoError(t, d.Set(3, 3))
	v, err := d.Get(3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, d.Len())

	require.NoError(t, d.Set("Shepherd", "Mary"))
	assert.Equal(t, 2, d.Len())
	v, err = d.Get("Shepherd")
	require.NoError(t, err)
	assert.Equal(t, "Mary", v)

	require.NoError(t, d.Set("Shepherd", "John"))
	v, err = d.Get("Shepherd")
	require.NoError(t, err)
	assert.Equal(t, "John", v)
	assert.Equal(t, 2, d.Len())
}

func TestFromMap_KeyTypes(t *testing.T) {
	byScore := flock.FromMap(map[int]any{12: 2.0, 10: 1.0})
	assert.Equal(t, []any{10, 12}, byScore.Keys())
	v, err := byScore.Get(12)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	byName := flock.FromMap(map[string]any{"b": 2, "a": map[int]any{1: "one"}})
	assert.Equal(t, []any{"a", "b"}, byName.Keys())
	a, err := byName.Get("a")
	require.NoError(t, err)
	one, err := a.(*flock.Dict).Get(1)
	require.NoError(t, err)
	assert.Equal(t, "one", one)
}

func TestDict_NestedLiteralsBecomeContainers(t *testing.T) {
	d := flock.NewDict()
	require.NoError(t, d.Set("Management", map[string]any{
		"Mary": map[string]any{"lambs": 1, "size": "little"},
	}))
	require.NoError(t, d.Set("Staff", []any{"Joshua", "Isaac"}))

	mgmt, err := d.Get("Management")
	require.NoError(t, err)
	require.IsType(t, &flock.Dict{}, mgmt)

	mary, err := mgmt.(*flock.Dict).Get("Mary")
	require.NoError(t, err)
	lambs, err := mary.(*flock.Dict).Get("lambs")
	require.NoError(t, err)
	assert.Equal(t, 1, lambs)

	staff, err := d.Get("Staff")
	require.NoError(t, err)
	require.IsType(t, &flock.List{}, staff)
	second, err := staff.(*flock.List).Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Isaac", second)
}

func TestDict_LiteralKeepsFunctionsAndMaps(t *testing.T) {
	d := flock.NewDict()
	fn := func() any { return "called" }
	require.NoError(t, d.Set("fn", flock.Literal{Value: fn}))
	require.NoError(t, d.Set("map", flock.Literal{Value: map[string]any{"a": 1}}))

	v, err := d.Get("fn")
	require.NoError(t, err)
	_, isFunc := v.(func() any)
	assert.True(t, isFunc)

	v, err = d.Get("map")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, v)
}

func TestDict_GetMemoizes(t *testing.T) {
	d := flock.NewDict()
	rule, calls := counter("little")
	require.NoError(t, d.Set("lamb", rule))
	assert.Equal(t, 0, *calls, "set must not invoke the rule")

	for range 3 {
		v, err := d.Get("lamb")
		require.NoError(t, err)
		assert.Equal(t, "little", v)
	}
	assert.Equal(t, 1, *calls)
}

func TestDict_MemoIsAuthoritativeUntilInvalidated(t *testing.T) {
	d := flock.NewDict()
	external := 1
	require.NoError(t, d.Set("ext", func() any { return external }))

	v, err := d.Get("ext")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	external = 2
	v, err = d.Get("ext")
	require.NoError(t, err)
	assert.Equal(t, 1, v, "cached value survives changes the engine cannot see")

	require.NoError(t, d.Set("other", true))
	v, err = d.Get("ext")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestDict_SelfReference(t *testing.T) {
	stats := flock.NewDict()
	require.NoError(t, stats.Update(
		flock.Pair{Key: "attendees", Value: 2800},
		flock.Pair{Key: "talks", Value: 80},
		flock.Pair{Key: "talk_ratio", Value: func() (any, error) {
			a, err := stats.Get("attendees")
			if err != nil {
				return nil, err
			}
			tk, err := stats.Get("talks")
			if err != nil {
				return nil, err
			}
			return a.(int) / tk.(int), nil
		}},
	))

	v, err := stats.Get("talk_ratio")
	require.NoError(t, err)
	assert.Equal(t, 35, v)

	require.NoError(t, stats.Set("talks", 100))
	v, err = stats.Get("talk_ratio")
	require.NoError(t, err)
	assert.Equal(t, 28, v)
}

func TestDict_GetMissing(t *testing.T) {
	d := flock.NewDict()
	_, err := d.Get("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "missing", zErr.Metadata()["key"])
}

func TestDict_CalculationError(t *testing.T) {
	d := flock.NewDict()
	zero := 0
	require.NoError(t, d.Set("bad", func() (any, error) {
		return 1 / zero, nil
	}))

	_, err := d.Get("bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCalculationFailed)

	var calc *flock.CalculationError
	require.ErrorAs(t, err, &calc)
	assert.Equal(t, "bad", calc.Key)

	var rtErr runtime.Error
	require.ErrorAs(t, err, &rtErr)
	assert.ErrorContains(t, err, "integer divide by zero")
	assert.True(t, d.Contains("bad"), "the key stays set")
}

func TestDict_CalculationErrorIsRetried(t *testing.T) {
	d := flock.NewDict()
	attempts := 0
	require.NoError(t, d.Set("flaky", func() (any, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("not yet")
		}
		return "ok", nil
	}))

	_, err := d.Get("flaky")
	require.Error(t, err)

	v, err := d.Get("flaky")
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, attempts)
}

func TestDict_NestedFailureKeepsInnerKey(t *testing.T) {
	d := flock.NewDict()
	cause := errors.New("boom")
	require.NoError(t, d.Set("inner", func() (any, error) { return nil, cause }))
	require.NoError(t, d.Set("outer", func() (any, error) { return d.Get("inner") }))

	_, err := d.Get("outer")
	require.Error(t, err)

	var calc *flock.CalculationError
	require.ErrorAs(t, err, &calc)
	assert.Equal(t, "inner", calc.Key)
	assert.ErrorIs(t, err, cause)
}

func TestDict_Delete(t *testing.T) {
	d := flock.NewDict()
	rule, calls := counter(7)
	require.NoError(t, d.Set("k", rule))
	_, err := d.Get("k")
	require.NoError(t, err)

	require.NoError(t, d.Delete("k"))
	assert.False(t, d.Contains("k"))
	assert.Equal(t, 0, d.Len())

	_, err = d.Get("k")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, d.Set("k", rule))
	_, err = d.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 2, *calls, "the cached value was removed with the key")
}

func TestDict_DeleteMissing(t *testing.T) {
	d := flock.NewDict()
	err := d.Delete("absent")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestDict_InvalidKey(t *testing.T) {
	d := flock.NewDict()
	err := d.Set([]int{1}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidKey)
	assert.False(t, d.Contains([]int{1}))
}

func TestDict_KeysKeepInsertionOrder(t *testing.T) {
	d := flock.NewDict()
	for _, k := range []any{"b", 2, "a", 1} {
		require.NoError(t, d.Set(k, k))
	}
	assert.Equal(t, []any{"b", 2, "a", 1}, d.Keys())

	var seen []any
	for k := range d.All() {
		seen = append(seen, k)
	}
	assert.Equal(t, d.Keys(), seen)
}

func TestDict_SetDefault(t *testing.T) {
	d := flock.NewDict()
	v, err := d.SetDefault("level", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = d.SetDefault("level", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestDict_ConsistentFlatten(t *testing.T) {
	d := flock.NewDict()
	on := true
	toggle := func() any {
		v := on
		on = !on
		return v
	}
	require.NoError(t, d.Set("toggle", toggle))
	require.NoError(t, d.Set("toggle2", toggle))
	for i := range 5 {
		require.NoError(t, d.Set(i, func() (any, error) { return d.Get("toggle") }))
	}

	snap, err := d.Snapshot(false)
	require.NoError(t, err)

	first, _ := snap.Get("toggle")
	second, _ := snap.Get("toggle2")
	assert.NotEqual(t, first, second)
	for i := range 5 {
		v, _ := snap.Get(i)
		assert.Equal(t, first, v, "key %d", i)
	}
}
