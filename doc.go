// Package followerwatch watches a GitHub account's follower list and sends
// a notification (email or webhook) whenever new followers show up.
//
// The Monitor is the heart of it: each tick it fetches the current follower
// set, diffs it against the last persisted snapshot, notifies about the
// newcomers, and persists the current set. The GitHub source, the snapshot
// stores, and the notifiers all exist to be plugged into the Monitor, and
// each can be swapped for a stub in tests.
package followerwatch
