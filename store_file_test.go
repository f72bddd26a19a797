package followerwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "followers.json")
	fs := NewFileStore(path)
	ctx := context.Background()

	want := NewFollowerSet("carol", "alice", "bob")
	require.NoError(t, fs.Save(ctx, want))

	snap, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, snap.Followers)
	assert.False(t, snap.LastUpdated.IsZero())
}

func TestFileStoreAbsent(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "followers.json"))
	_, err := fs.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "followers.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	fs := NewFileStore(path)
	_, err := fs.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot,
		"corrupt data must not look like a missing snapshot")
}

func TestFileStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "followers.json")
	fs := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, NewFollowerSet("alice", "bob")))
	require.NoError(t, fs.Save(ctx, NewFollowerSet("alice")))

	snap, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, NewFollowerSet("alice"), snap.Followers)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(filepath.Join(dir, "followers.json"))
	require.NoError(t, fs.Save(context.Background(), NewFollowerSet("alice")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "followers.json", entries[0].Name())
}
