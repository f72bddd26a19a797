package followerwatch

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FollowerSource produces the current follower set for an account.
type FollowerSource interface {
	Fetch(ctx context.Context, account string) (FollowerSet, error)
}

// FetchError indicates the follower list could not be retrieved, either
// because the API was unreachable or because it answered with a non-2xx
// status.
type FetchError struct {
	Account string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching followers for %s: %v", e.Account, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// GitHubFollowers fetches an account's complete follower list from the
// GitHub API, walking the paginated endpoint until a page comes back empty.
type GitHubFollowers struct {
	// Token is the bearer token sent with every request.
	Token string

	// PageSize is the per_page value for the followers endpoint.
	// GitHub caps this at 100, which is also the default.
	PageSize int

	apiBaseURL string
	client     *http.Client
	log        *zap.SugaredLogger
}

// NewGitHubFollowers returns a source that lists followers via the GitHub
// API using the given token.
func NewGitHubFollowers(token string, options ...func(*GitHubFollowers)) *GitHubFollowers {
	const githubAPIBaseURL = "https://api.github.com"
	gf := &GitHubFollowers{
		Token:      token,
		PageSize:   100,
		apiBaseURL: githubAPIBaseURL,
		client:     initHTTPClient(20 * time.Second),
		log:        zap.NewNop().Sugar(),
	}
	for _, o := range options {
		o(gf)
	}
	return gf
}

// WithGitHubLogger is an option that can be passed to NewGitHubFollowers to
// set the *zap.SugaredLogger the source will use internally. Without it, a
// no-op log is used.
func WithGitHubLogger(logger *zap.SugaredLogger) func(*GitHubFollowers) {
	return func(gf *GitHubFollowers) {
		gf.log = logger
	}
}

// WithGitHubBaseURL is an option that points the source at an alternate API
// base URL, such as a GitHub Enterprise host or a test server.
func WithGitHubBaseURL(baseURL string) func(*GitHubFollowers) {
	return func(gf *GitHubFollowers) {
		gf.apiBaseURL = baseURL
	}
}

// Fetch lists every follower of account, assembling all pages into one set.
// Any transport error or non-2xx response aborts the fetch: a partial
// follower list must never be mistaken for the whole thing, since the
// missing members would be re-reported as new on the next complete fetch.
func (gf *GitHubFollowers) Fetch(ctx context.Context, account string) (FollowerSet, error) {
	followers := make(FollowerSet)
	for page := 1; ; page++ {
		logins, err := gf.fetchPage(ctx, account, page)
		if err != nil {
			return nil, &FetchError{Account: account, Err: err}
		}
		if len(logins) == 0 {
			break
		}
		for _, l := range logins {
			followers.Add(l)
		}
	}
	gf.log.Infow("fetched followers", "account", account, "count", followers.Len())
	return followers, nil
}

func (gf *GitHubFollowers) fetchPage(ctx context.Context, account string, page int) ([]string, error) {
	endpoint := fmt.Sprintf("%s/users/%s/followers", gf.apiBaseURL, account)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(gf.PageSize))
	req.URL.RawQuery = q.Encode()
	req.Header.Add("Authorization", "token "+gf.Token)
	req.Header.Add("Accept", "application/vnd.github.v3+json")
	req.Header.Add("User-Agent", "follower-watch")

	resp, err := gf.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error reaching GitHub API: %s", endpoint)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error during GitHub API call: %v (url: %s)",
			resp.Status, endpoint)
	}

	var users []struct {
		Login string `json:"login"`
	}
	if err := decodeResponse(resp.Body, &users); err != nil {
		return nil, errors.Wrap(err, "GitHub followers response")
	}
	logins := make([]string, 0, len(users))
	for _, u := range users {
		logins = append(logins, u.Login)
	}
	return logins, nil
}
