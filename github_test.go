package followerwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followersHandler(t *testing.T, pages map[string][]string) http.HandlerFunc {
	t.Helper()
	return func(rw http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/users/octocat/followers", req.URL.Path)
		assert.Equal(t, "token sekrit", req.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", req.Header.Get("Accept"))

		logins := pages[req.URL.Query().Get("page")]
		users := make([]map[string]string, 0, len(logins))
		for _, l := range logins {
			users = append(users, map[string]string{"login": l})
		}
		rw.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(rw).Encode(users))
	}
}

func TestGitHubFollowersFetchPaginates(t *testing.T) {
	srv := httptest.NewServer(followersHandler(t, map[string][]string{
		"1": {"alice", "bob"},
		"2": {"carol"},
	}))
	defer srv.Close()

	gf := NewGitHubFollowers("sekrit", WithGitHubBaseURL(srv.URL))
	got, err := gf.Fetch(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, NewFollowerSet("alice", "bob", "carol"), got)
}

func TestGitHubFollowersFetchEmpty(t *testing.T) {
	srv := httptest.NewServer(followersHandler(t, nil))
	defer srv.Close()

	gf := NewGitHubFollowers("sekrit", WithGitHubBaseURL(srv.URL))
	got, err := gf.Fetch(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestGitHubFollowersFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		http.Error(rw, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	gf := NewGitHubFollowers("sekrit", WithGitHubBaseURL(srv.URL))
	_, err := gf.Fetch(context.Background(), "octocat")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "octocat", fe.Account)
}

func TestGitHubFollowersFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {}))
	srv.Close() // nothing is listening anymore

	gf := NewGitHubFollowers("sekrit", WithGitHubBaseURL(srv.URL))
	_, err := gf.Fetch(context.Background(), "octocat")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
}

func TestGitHubFollowersPageSize(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		seen = append(seen, req.URL.Query().Get("per_page"))
		fmt.Fprint(rw, "[]")
	}))
	defer srv.Close()

	gf := NewGitHubFollowers("sekrit", WithGitHubBaseURL(srv.URL))
	gf.PageSize = 42
	_, err := gf.Fetch(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, seen)
}
