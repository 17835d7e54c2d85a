package cas_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flock/internal/adapters/cas"
	"go.trai.ch/flock/internal/core/domain"
)

func testSnapshot(level int) *domain.Snapshot {
	return domain.NewSnapshot(map[any]any{
		"level":   level,
		"Race":    "Elf",
		"bonuses": domain.NewSnapshot(map[any]any{"heroics": 0.5}),
	})
}

func TestStore_PutAndGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	store := cas.NewStore(dir)

	snap := testSnapshot(2)
	digest, err := store.Put(snap)
	require.NoError(t, err)

	want, err := snap.Digest()
	require.NoError(t, err)
	assert.Equal(t, want, digest)
	assert.FileExists(t, filepath.Join(dir, digest+domain.SnapshotExt))

	data, err := store.Get(digest)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]any{
		"Race":    "Elf",
		"bonuses": map[string]any{"heroics": 0.5},
		"level":   2.0,
	}, doc)
}

func TestStore_PutIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := cas.NewStore(dir)

	first, err := store.Put(testSnapshot(2))
	require.NoError(t, err)
	second, err := store.Put(testSnapshot(2))
	require.NoError(t, err)
	third, err := store.Put(testSnapshot(3))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, third)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStore_GetMissing(t *testing.T) {
	data, err := cas.NewStore(t.TempDir()).Get("0123456789abcdef")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestStore_GetErrors(t *testing.T) {
	dir := t.TempDir()
	store := cas.NewStore(dir)

	digest, err := store.Put(testSnapshot(2))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, digest+domain.SnapshotExt), []byte(`{"level":9}`), domain.FilePerm))

	tests := []struct {
		name   string
		digest string
	}{
		{"tampered", digest},
		{"traversal", "../../etc/passwd"},
		{"uppercase", "0123456789ABCDEF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Get(tt.digest)
			assert.ErrorIs(t, err, domain.ErrStoreReadFailed)
		})
	}
}

func TestStore_PutUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, domain.FilePerm))

	_, err := cas.NewStore(filepath.Join(blocker, "store")).Put(testSnapshot(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrStoreCreateFailed.Error())
}
