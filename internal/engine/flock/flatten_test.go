package flock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/flock/internal/engine/flock"
)

func TestFlatten_Trivial(t *testing.T) {
	d := flock.NewDict()
	require.NoError(t, d.Set(3, 15))
	assert.True(t, d.Check(nil).Empty())

	snap, err := d.Snapshot(false)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{3: 15}, snap.Plain())

	require.NoError(t, d.Set("cat", func() any { return "Abbey" }))
	assert.True(t, d.Check(nil).Empty())

	snap, err = d.Snapshot(false)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{3: 15, "cat": "Abbey"}, snap.Plain())
}

func TestFlatten_CanonicalOrder(t *testing.T) {
	inserts := [][]any{
		{"b", 2, "a", 1.5, true},
		{true, 1.5, "a", 2, "b"},
		{2, "a", true, "b", 1.5},
	}
	want := []any{true, 1.5, 2, "a", "b"}

	for _, keys := range inserts {
		d := flock.NewDict()
		for _, k := range keys {
			require.NoError(t, d.Set(k, "v"))
		}
		for range 2 {
			snap, err := d.Snapshot(false)
			require.NoError(t, err)
			assert.Equal(t, want, snap.Keys())
		}
	}
}

func TestFlatten_Nested(t *testing.T) {
	d := flock.NewDict()
	require.NoError(t, d.Set("stats", map[string]any{"str": 10, "dex": 12}))
	require.NoError(t, d.Set("items", []any{"rope", map[string]any{"name": "lamp"}}))
	require.NoError(t, d.Set("best", func() (any, error) { return d.Get("stats") }))

	snap, err := d.Snapshot(false)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{
		"stats": map[any]any{"str": 10, "dex": 12},
		"items": []any{"rope", map[any]any{"name": "lamp"}},
		"best":  map[any]any{"str": 10, "dex": 12},
	}, snap.Plain())
}

func TestFlatten_RecordErrors(t *testing.T) {
	d := flock.NewDict()
	zero := 0
	require.NoError(t, d.Set("bad", func() (any, error) { return 1 / zero, nil }))
	require.NoError(t, d.Set("good", 1))

	_, err := d.Snapshot(false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCalculationFailed)

	snap, err := d.Snapshot(true)
	require.NoError(t, err)

	bad, ok := snap.Get("bad")
	require.True(t, ok)
	badErr, isErr := bad.(error)
	require.True(t, isErr)
	assert.ErrorIs(t, badErr, domain.ErrCalculationFailed)

	good, _ := snap.Get("good")
	assert.Equal(t, 1, good)
}

func TestFlatten_FailurePath(t *testing.T) {
	cause := errors.New("boom")
	d := flock.FromMap(map[string]any{
		"stats": map[string]any{
			"bad": func() (any, error) { return nil, cause },
		},
		"skills": []any{1, func() (any, error) { return nil, cause }},
	})

	_, err := d.Snapshot(false)
	var calc *flock.CalculationError
	require.ErrorAs(t, err, &calc)
	assert.Equal(t, []any{"skills", 1}, calc.Path)
	assert.Equal(t, 1, calc.Key)
	assert.ErrorIs(t, err, cause)

	stats, err := d.Get("stats")
	require.NoError(t, err)
	_, err = stats.(*flock.Dict).Get("bad")
	require.ErrorAs(t, err, &calc)
	assert.Empty(t, calc.Path, "direct reads carry no path")

	snap, err := d.Snapshot(true)
	require.NoError(t, err)
	nested, _ := snap.Get("stats")
	bad, _ := nested.(*domain.Snapshot).Get("bad")
	require.ErrorAs(t, bad.(error), &calc)
	assert.Equal(t, []any{"bad"}, calc.Path)
}

func TestFlatten_WritesCache(t *testing.T) {
	d := flock.NewDict()
	rule, calls := counter(1)
	require.NoError(t, d.Set("k", rule))

	_, err := d.Snapshot(false)
	require.NoError(t, err)
	_, err = d.Get("k")
	require.NoError(t, err)
	_, err = d.Snapshot(false)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}

func TestFlatten_List(t *testing.T) {
	l := flock.NewList(1, func() any { return 2 }, map[string]any{"three": 3})
	values, err := l.Values(false)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, 1, values[0])
	assert.Equal(t, 2, values[1])
	snap, ok := values[2].(*domain.Snapshot)
	require.True(t, ok)
	assert.Equal(t, map[any]any{"three": 3}, snap.Plain())
}

func TestCheck_ReportsNilRules(t *testing.T) {
	d := flock.NewDict()
	var broken flock.Rule
	require.NoError(t, d.Set("nested", map[string]any{"inner": map[string]any{}}))
	inner, err := path(d, "nested", "inner")
	require.NoError(t, err)
	require.NoError(t, inner.(*flock.Dict).Set("broken", broken))

	diags := d.Check(nil)
	require.False(t, diags.Empty())

	problems := diags.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, []any{"nested", "inner", "broken"}, problems[0].Path)
	assert.ErrorIs(t, problems[0], domain.ErrStructural)

	_, err = path(d, "nested", "inner", "broken")
	assert.ErrorIs(t, err, domain.ErrStructural)
}

func TestCheck_NeverInvokesRules(t *testing.T) {
	d := flock.NewDict()
	rule, calls := counter(nil)
	require.NoError(t, d.Set("a", rule))
	require.NoError(t, d.Set("b", func() (any, error) { return nil, errors.New("unused") }))

	assert.True(t, d.Check([]any{"root"}).Empty())
	assert.Equal(t, 0, *calls)
}
