package followerwatch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// snapshotFile is the on-disk JSON shape. It matches the layout the
// original Python agent wrote, so an existing followers.json keeps working.
type snapshotFile struct {
	Followers   []string  `json:"followers"`
	LastUpdated time.Time `json:"last_updated"`
}

// FileStore persists the snapshot as a single JSON file. Saves go through
// a temp file and a rename, so a crash mid-save leaves the previous
// snapshot in place rather than a truncated one.
type FileStore struct {
	Path string
}

// NewFileStore returns a store writing to the given path. The parent
// directory must exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (fs *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	_ = ctx
	f, err := os.Open(fs.Path)
	if os.IsNotExist(err) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening snapshot %s", fs.Path)
	}
	defer f.Close()

	var sf snapshotFile
	if err := json.NewDecoder(f).Decode(&sf); err != nil {
		return nil, errors.Wrapf(err, "decoding snapshot %s", fs.Path)
	}
	return &Snapshot{
		Followers:   NewFollowerSet(sf.Followers...),
		LastUpdated: sf.LastUpdated,
	}, nil
}

func (fs *FileStore) Save(ctx context.Context, followers FollowerSet) error {
	_ = ctx
	sf := snapshotFile{
		Followers:   followers.Handles(),
		LastUpdated: time.Now(),
	}
	b, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}

	dir := filepath.Dir(fs.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(fs.Path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "creating temp snapshot in %s", dir)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "writing temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "closing temp snapshot")
	}
	if err := os.Rename(tmp.Name(), fs.Path); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "replacing snapshot %s", fs.Path)
	}
	return nil
}
