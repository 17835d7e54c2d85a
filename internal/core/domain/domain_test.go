package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flock/internal/core/domain"
	"gopkg.in/yaml.v3"
)

func TestSortKeys(t *testing.T) {
	keys := []any{"b", 2.5, true, "a", 1, uint8(3), false, struct{}{}}
	domain.SortKeys(keys)
	assert.Equal(t, []any{false, true, 1, 2.5, uint8(3), "a", "b", struct{}{}}, keys)
}

func TestCompareKeys_NumbersByValue(t *testing.T) {
	tests := []struct {
		a, b any
		want int
	}{
		{1, 1.0, 1},
		{int64(2), 1.5, 1},
		{uint64(1 << 63), int64(1), 1},
		{-1, uint(0), -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.CompareKeys(tt.a, tt.b), "%v vs %v", tt.a, tt.b)
	}
}

func TestSortKeys_EqualNumbersOfDifferentTypes(t *testing.T) {
	keys := []any{int64(1), uint8(1), 1, 1.0}
	domain.SortKeys(keys)
	assert.Equal(t, []any{1.0, 1, int64(1), uint8(1)}, keys)
	assert.NotZero(t, domain.CompareKeys(1, 1.0))
}

func TestSnapshot_DigestWithEqualNumericKeys(t *testing.T) {
	values := map[any]any{int64(1): "a", 1: "b", 1.0: "c"}
	want, err := domain.NewSnapshot(values).Digest()
	require.NoError(t, err)

	for range 100 {
		snap := domain.NewSnapshot(values)
		assert.Equal(t, []any{1.0, 1, int64(1)}, snap.Keys())
		got, err := snap.Digest()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDiagnostics(t *testing.T) {
	diags := domain.Diagnostics{}
	assert.True(t, diags.Empty())
	require.NoError(t, diags.Err())

	boom := errors.New("boom")
	diags["b"] = domain.Problem{Path: []any{"b"}, Source: domain.NoSource, Err: boom}
	diags["a"] = domain.Diagnostics{
		0: domain.Problem{Path: []any{"a", "x"}, Source: 0, Err: domain.ErrUnsupportedOperand},
	}

	problems := diags.Problems()
	require.Len(t, problems, 2)
	assert.Equal(t, "a.x (source 0): unsupported operand", problems[0].Error())
	assert.Equal(t, "b: boom", problems[1].Error())

	err := diags.Err()
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, domain.ErrUnsupportedOperand)
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "<root>", domain.FormatPath(nil))
	assert.Equal(t, "points.total.0", domain.FormatPath([]any{"points", "total", 0}))

	base := []any{"points"}
	ext := domain.ExtendPath(base, "total")
	assert.Equal(t, []any{"points", "total"}, ext)
	assert.Equal(t, []any{"points"}, base)
}

func TestSnapshot_Encoding(t *testing.T) {
	snap := domain.NewSnapshot(map[any]any{
		"level":  2,
		"broken": errors.New("no such key"),
		"nested": domain.NewSnapshot(map[any]any{"b": 1, "a": []any{1, 2}}),
	})
	assert.Equal(t, []any{"broken", "level", "nested"}, snap.Keys())

	out, err := yaml.Marshal(snap)
	require.NoError(t, err)
	assert.Equal(t, "broken: !error no such key\nlevel: 2\nnested:\n    a:\n        - 1\n        - 2\n    b: 1\n", string(out))

	data, err := snap.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"broken":{"error":"no such key"},"level":2,"nested":{"a":[1,2],"b":1}}`, string(data))

	assert.Equal(t, map[any]any{
		"broken": snap.Plain()["broken"],
		"level":  2,
		"nested": map[any]any{"b": 1, "a": []any{1, 2}},
	}, snap.Plain())
}

func TestSnapshot_DigestIsStable(t *testing.T) {
	a := domain.NewSnapshot(map[any]any{"x": 1, "y": "two"})
	b := domain.NewSnapshot(map[any]any{"y": "two", "x": 1})

	da, err := a.Digest()
	require.NoError(t, err)
	db, err := b.Digest()
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.Len(t, da, 16)

	c := domain.NewSnapshot(map[any]any{"x": 2, "y": "two"})
	dc, err := c.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, da, dc)
}
