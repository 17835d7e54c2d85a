package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/flock/internal/engine/flock"
	"go.trai.ch/flock/internal/rules"
)

func TestReference(t *testing.T) {
	src := flock.FromMap(map[string]any{
		"base_stats": map[string]any{"Spirit": 10},
	})
	char := flock.NewDict()
	require.NoError(t, char.Set("Spirit", rules.Reference(src, "base_stats", "Spirit")))

	v, err := char.Get("Spirit")
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	stats, err := src.Get("base_stats")
	require.NoError(t, err)
	require.NoError(t, stats.(*flock.Dict).Set("Spirit", 12))

	v, err = char.Get("Spirit")
	require.NoError(t, err)
	assert.Equal(t, 12, v, "the referenced container is declared as read")
}

func TestReference_SelfAndErrors(t *testing.T) {
	d := flock.FromMap(map[string]any{"a": 1})
	require.NoError(t, d.Set("b", rules.Reference(d, "a")))
	require.NoError(t, d.Set("missing", rules.Reference(d, "nope")))
	require.NoError(t, d.Set("scalar", rules.Reference(d, "a", "deeper")))

	v, err := d.Get("b")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = d.Get("missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.ErrorIs(t, err, domain.ErrCalculationFailed)

	_, err = d.Get("scalar")
	assert.ErrorIs(t, err, domain.ErrNotAContainer)
}

func TestLookup(t *testing.T) {
	table := map[int]any{10: 1.0, 12: 1.5}
	char := flock.FromMap(map[string]any{"Intelligence": 10})

	bonuses := flock.NewDict()
	require.NoError(t, bonuses.Set("Mental Skill Points", rules.Lookup(char, "Intelligence", table)))

	v, err := bonuses.Get("Mental Skill Points")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-9)

	require.NoError(t, char.Set("Intelligence", 12.0))
	v, err = bonuses.Get("Mental Skill Points")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v, 1e-9)

	require.NoError(t, char.Set("Intelligence", 99))
	v, err = bonuses.Get("Mental Skill Points")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, char.Set("Intelligence", "high"))
	_, err = bonuses.Get("Mental Skill Points")
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperand)
}

func TestToggle(t *testing.T) {
	d := flock.NewDict()
	require.NoError(t, d.Set("toggle", rules.Toggle()))

	var seen []any
	for range 4 {
		v, err := d.Get("toggle")
		require.NoError(t, err)
		seen = append(seen, v)
		require.NoError(t, d.Set("tick", len(seen)))
	}
	assert.Equal(t, []any{true, false, true, false}, seen)
}

func TestAsReader(t *testing.T) {
	tests := []struct {
		name  string
		input any
		keys  []any
	}{
		{"string map", map[string]any{"b": 1, "a": 2}, []any{"a", "b"}},
		{"any map", map[any]any{2: "x", 1: "y"}, []any{1, 2}},
		{"slice", []any{"x", "y"}, []any{0, 1}},
		{"snapshot", domain.NewSnapshot(map[any]any{"k": 1}), []any{"k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := rules.AsReader(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.keys, r.Keys())
		})
	}

	_, err := rules.AsReader(3)
	assert.ErrorIs(t, err, domain.ErrNotAContainer)
}
