package followerwatch

import "sort"

// FollowerSet is a set of follower handles. Uniqueness is the only
// invariant; a set is built fresh each tick and never mutated after that.
type FollowerSet map[string]struct{}

// NewFollowerSet builds a set from the given handles, dropping duplicates.
func NewFollowerSet(handles ...string) FollowerSet {
	s := make(FollowerSet, len(handles))
	for _, h := range handles {
		s[h] = struct{}{}
	}
	return s
}

// Add inserts a handle into the set.
func (s FollowerSet) Add(handle string) {
	s[handle] = struct{}{}
}

// Contains reports whether handle is a member of the set.
func (s FollowerSet) Contains(handle string) bool {
	_, ok := s[handle]
	return ok
}

// Len returns the number of followers in the set.
func (s FollowerSet) Len() int {
	return len(s)
}

// Diff returns the handles present in s but not in prev, sorted
// lexicographically. Diffing against a nil set returns every member.
func (s FollowerSet) Diff(prev FollowerSet) []string {
	var out []string
	for h := range s {
		if _, ok := prev[h]; !ok {
			out = append(out, h)
		}
	}
	sort.Strings(out)
	return out
}

// Handles returns every member of the set, sorted lexicographically.
func (s FollowerSet) Handles() []string {
	out := make([]string, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
