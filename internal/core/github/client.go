package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gogithub "github.com/google/go-github/v67/github"
)

const (
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"

	// one page covers realistic personal accounts
	listPageSize = 100
)

// Client fetches the public repositories of one GitHub account.
type Client struct {
	gh       *gogithub.Client
	username string
}

type clientConfig struct {
	baseURL *url.URL
	token   string
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

// WithToken authenticates requests, raising the upstream quota
func WithToken(token string) ClientOption {
	return func(c *clientConfig) {
		c.token = token
	}
}

// WithBaseURL points the client at a different API root (GitHub Enterprise, tests).
// The URL must end with a trailing slash.
func WithBaseURL(baseURL *url.URL) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// NewClient creates a client on top of a shared HTTP client.
// The HTTP client's transport, pooling and timeout are owned by the caller.
func NewClient(httpClient *http.Client, username string, opts ...ClientOption) *Client {
	if httpClient == nil {
		panic("github: httpClient cannot be nil")
	}
	if username == "" {
		panic("github: username cannot be empty")
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	gh := gogithub.NewClient(httpClient)
	if cfg.token != "" {
		gh = gh.WithAuthToken(cfg.token)
	}
	if cfg.baseURL != nil {
		gh.BaseURL = cfg.baseURL
	}

	return &Client{gh: gh, username: username}
}

// FetchAll lists the account's own repositories sorted by most recent push,
// dropping forks. Rate-limit headers are captured whatever the status.
func (c *Client) FetchAll(ctx context.Context) (*FetchResult, error) {
	opts := &gogithub.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "pushed",
		ListOptions: gogithub.ListOptions{PerPage: listPageSize},
	}

	repos, resp, err := c.gh.Repositories.ListByUser(ctx, c.username, opts)
	rateLimit := rateLimitFromResponse(resp)
	if err != nil {
		return nil, classifyError(err, rateLimit)
	}

	result := &FetchResult{
		Repos:     make([]UpstreamRepo, 0, len(repos)),
		RateLimit: rateLimit,
	}
	for _, repo := range repos {
		if repo == nil || repo.GetFork() {
			continue
		}
		result.Repos = append(result.Repos, mapUpstreamRepo(repo))
	}

	return result, nil
}

// rateLimitFromResponse reads the raw headers so an absent header stays nil
// instead of collapsing to a zero quota.
func rateLimitFromResponse(resp *gogithub.Response) RateLimitSnapshot {
	var snapshot RateLimitSnapshot
	if resp == nil || resp.Response == nil {
		return snapshot
	}

	if v := resp.Header.Get(headerRateRemaining); v != "" {
		if remaining, err := strconv.Atoi(v); err == nil {
			snapshot.Remaining = &remaining
		}
	}
	if v := resp.Header.Get(headerRateReset); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			reset := time.Unix(epoch, 0).UTC()
			snapshot.Reset = &reset
		}
	}

	return snapshot
}

func classifyError(err error, rateLimit RateLimitSnapshot) error {
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		status := http.StatusForbidden
		if rateErr.Response != nil {
			status = rateErr.Response.StatusCode
		}
		reset := rateLimit.Reset
		if reset == nil && !rateErr.Rate.Reset.IsZero() {
			t := rateErr.Rate.Reset.Time.UTC()
			reset = &t
		}
		return &FetchError{Kind: KindRateLimited, StatusCode: status, ResetAt: reset, Err: err}
	}

	var errResp *gogithub.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		status := errResp.Response.StatusCode
		if status == http.StatusForbidden && rateLimit.Remaining != nil && *rateLimit.Remaining == 0 {
			return &FetchError{Kind: KindRateLimited, StatusCode: status, ResetAt: rateLimit.Reset, Err: err}
		}
		return &FetchError{Kind: KindAPI, StatusCode: status, Body: errorBody(errResp.Message, status), Err: err}
	}

	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		status := abuseErr.Response.StatusCode
		return &FetchError{Kind: KindAPI, StatusCode: status, Body: errorBody(abuseErr.Message, status), Err: err}
	}

	return &FetchError{Kind: KindRequest, Err: err}
}

func errorBody(message string, status int) string {
	if message != "" {
		return message
	}
	return http.StatusText(status)
}

func mapUpstreamRepo(repo *gogithub.Repository) UpstreamRepo {
	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}

	return UpstreamRepo{
		GitHubID:    repo.GetID(),
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		Description: repo.Description,
		HTMLURL:     repo.GetHTMLURL(),
		Language:    repo.Language,
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		OpenIssues:  repo.GetOpenIssuesCount(),
		Topics:      topics,
		CreatedAt:   timestampPtr(repo.CreatedAt),
		UpdatedAt:   timestampPtr(repo.UpdatedAt),
		PushedAt:    timestampPtr(repo.PushedAt),
	}
}

func timestampPtr(ts *gogithub.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}
