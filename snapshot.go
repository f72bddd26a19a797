package followerwatch

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrNoSnapshot is returned by a SnapshotStore when no snapshot has been
// persisted yet. It is the first-run case, not a failure: a corrupt or
// unreadable snapshot is reported as an ordinary error instead.
var ErrNoSnapshot = errors.New("no snapshot")

// Snapshot is the last persisted follower set together with the time it
// was written. Only the latest snapshot exists; every save overwrites it.
type Snapshot struct {
	Followers   FollowerSet
	LastUpdated time.Time
}

// SnapshotStore persists the follower set between ticks.
type SnapshotStore interface {
	// Load returns the previously saved snapshot, or ErrNoSnapshot if
	// nothing has been saved yet.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the stored snapshot with the given follower set,
	// stamped with the current time. A failed save must leave the
	// previous snapshot intact.
	Save(ctx context.Context, followers FollowerSet) error
}
