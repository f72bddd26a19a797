package followerwatch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Monitor watches one account's follower list. Each tick it fetches the
// current follower set, diffs it against the persisted snapshot, dispatches
// a notification for any new followers, and persists the current set.
//
// Ticks are strictly sequential. A Monitor never overlaps two ticks, and
// cancellation is only observed between them.
type Monitor struct {
	// Account is the handle whose followers are watched.
	Account string

	// Interval is how long Run sleeps between ticks.
	Interval time.Duration

	source   FollowerSource
	store    SnapshotStore
	notifier Notifier
	log      *zap.SugaredLogger

	mu    sync.Mutex
	stats MonitorStats
}

// MonitorStats is a point-in-time view of the monitor, served by the
// status endpoint.
type MonitorStats struct {
	Followers    int       `json:"followers"`
	NewLastCheck int       `json:"new_last_check"`
	Checks       int       `json:"checks"`
	LastCheck    time.Time `json:"last_check"`
}

// NewMonitor returns a monitor wiring the given source, store, and
// notifier together for account.
func NewMonitor(
	account string,
	interval time.Duration,
	source FollowerSource,
	store SnapshotStore,
	notifier Notifier,
	options ...func(*Monitor)) (*Monitor, error) {

	if account == "" {
		return nil, errors.New("account must be specified")
	}
	if source == nil || store == nil || notifier == nil {
		return nil, errors.New("source, store, and notifier are all required")
	}
	m := &Monitor{
		Account:  account,
		Interval: interval,
		source:   source,
		store:    store,
		notifier: notifier,
		log:      zap.NewNop().Sugar(),
	}
	for _, o := range options {
		o(m)
	}
	return m, nil
}

// WithMonitorLogger is an option that can be passed to NewMonitor to set
// the *zap.SugaredLogger the monitor will use internally. If this option
// is not passed, a no-op log is used.
func WithMonitorLogger(logger *zap.SugaredLogger) func(*Monitor) {
	return func(m *Monitor) {
		m.log = logger
	}
}

// CheckOnce runs a single tick and returns the number of new followers
// found. The error is non-nil only when the tick could not establish a
// trustworthy diff: the fetch failed, or the snapshot exists but could not
// be read. In either case the stored snapshot is left untouched and no
// notification goes out. Notify and save failures are logged and swallowed;
// a failed notification is never retried, because the snapshot is persisted
// regardless of the notify outcome.
func (m *Monitor) CheckOnce(ctx context.Context) (int, error) {
	m.log.Infow("checking for new followers", "account", m.Account)

	current, err := m.source.Fetch(ctx, m.Account)
	if err != nil {
		m.log.Errorw("error fetching followers",
			"account", m.Account, "err", err)
		return 0, err
	}

	previous := FollowerSet{}
	snap, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		// First run: every current follower counts as new.
		m.log.Infow("no previous snapshot found, starting fresh")
	case err != nil:
		// A corrupt snapshot is not the same as an absent one. Treating
		// it as empty would re-announce the entire follower base.
		m.log.Errorw("error reading snapshot", "err", err)
		return 0, err
	default:
		previous = snap.Followers
	}

	newFollowers := current.Diff(previous)
	if len(newFollowers) > 0 {
		m.log.Infow("new followers found",
			"account", m.Account,
			"count", len(newFollowers),
			"handles", strings.Join(newFollowers, ", "))
		if err := m.notifier.Notify(ctx, newFollowers); err != nil {
			m.log.Errorw("error dispatching notification", "err", err)
		}
	} else {
		m.log.Infow("no new followers found", "account", m.Account)
	}

	if err := m.store.Save(ctx, current); err != nil {
		m.log.Errorw("error saving snapshot", "err", err)
	}

	m.recordCheck(current.Len(), len(newFollowers))
	return len(newFollowers), nil
}

// Run ticks immediately, then every Interval, until ctx is cancelled.
// Per-tick failures are logged inside CheckOnce and do not stop the loop.
func (m *Monitor) Run(ctx context.Context) error {
	if m.Interval <= 0 {
		return errors.New("interval must be greater than zero")
	}
	m.log.Infow("watching for new followers",
		"account", m.Account,
		"poll_interval", m.Interval)

	t := time.NewTicker(m.Interval)
	defer t.Stop()
	for {
		_, _ = m.CheckOnce(ctx)
		select {
		case <-ctx.Done():
			m.log.Infow("follower monitor stopped")
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Stats returns a snapshot of the monitor's counters.
func (m *Monitor) Stats() MonitorStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *Monitor) recordCheck(followers, newFollowers int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Followers = followers
	m.stats.NewLastCheck = newFollowers
	m.stats.Checks++
	m.stats.LastCheck = time.Now()
}
