package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reposPayload = `[
  {
    "id": 101,
    "name": "portfolio",
    "full_name": "octo/portfolio",
    "description": "Personal site",
    "html_url": "https://github.com/octo/portfolio",
    "language": "Go",
    "stargazers_count": 12,
    "forks_count": 3,
    "open_issues_count": 1,
    "topics": ["go", "web"],
    "created_at": "2024-01-02T03:04:05Z",
    "updated_at": "2025-01-02T03:04:05Z",
    "pushed_at": "2025-02-10T08:00:00Z",
    "fork": false
  },
  {
    "id": 102,
    "name": "someone-elses-lib",
    "full_name": "octo/someone-elses-lib",
    "html_url": "https://github.com/octo/someone-elses-lib",
    "stargazers_count": 500,
    "fork": true
  },
  {
    "id": 103,
    "name": "dotfiles",
    "full_name": "octo/dotfiles",
    "html_url": "https://github.com/octo/dotfiles",
    "stargazers_count": 0,
    "fork": false
  }
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	return NewClient(&http.Client{Timeout: 5 * time.Second}, "octo", WithBaseURL(baseURL))
}

func TestClient_FetchAll_Success(t *testing.T) {
	var gotQuery url.Values
	var gotPath string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Remaining", "57")
		w.Header().Set("X-RateLimit-Reset", "1740000000")
		_, _ = w.Write([]byte(reposPayload))
	})

	result, err := client.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/users/octo/repos", gotPath)
	assert.Equal(t, "owner", gotQuery.Get("type"))
	assert.Equal(t, "pushed", gotQuery.Get("sort"))
	assert.Equal(t, "100", gotQuery.Get("per_page"))

	require.Len(t, result.Repos, 2, "forks should be filtered out")
	assert.Equal(t, int64(101), result.Repos[0].GitHubID)
	assert.Equal(t, int64(103), result.Repos[1].GitHubID)

	repo := result.Repos[0]
	assert.Equal(t, "portfolio", repo.Name)
	assert.Equal(t, "octo/portfolio", repo.FullName)
	require.NotNil(t, repo.Description)
	assert.Equal(t, "Personal site", *repo.Description)
	require.NotNil(t, repo.Language)
	assert.Equal(t, "Go", *repo.Language)
	assert.Equal(t, 12, repo.Stars)
	assert.Equal(t, 3, repo.Forks)
	assert.Equal(t, 1, repo.OpenIssues)
	assert.Equal(t, []string{"go", "web"}, repo.Topics)
	require.NotNil(t, repo.PushedAt)
	assert.Equal(t, time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC), *repo.PushedAt)

	bare := result.Repos[1]
	assert.Nil(t, bare.Description)
	assert.Nil(t, bare.Language)
	assert.Nil(t, bare.PushedAt)
	assert.Equal(t, []string{}, bare.Topics)

	require.NotNil(t, result.RateLimit.Remaining)
	assert.Equal(t, 57, *result.RateLimit.Remaining)
	require.NotNil(t, result.RateLimit.Reset)
	assert.Equal(t, time.Unix(1740000000, 0).UTC(), *result.RateLimit.Reset)
}

func TestClient_FetchAll_MissingRateLimitHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	result, err := client.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Repos)
	assert.Nil(t, result.RateLimit.Remaining)
	assert.Nil(t, result.RateLimit.Reset)
}

func TestClient_FetchAll_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1740003600")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "API rate limit exceeded for 127.0.0.1."}`))
	})

	result, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)

	assert.True(t, IsRateLimited(err))
	reset, ok := RateLimitReset(err)
	require.True(t, ok)
	assert.Equal(t, time.Unix(1740003600, 0).UTC(), reset)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_FetchAll_ForbiddenWithQuotaLeft(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Remaining", "42")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Resource not accessible"}`))
	})

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.False(t, IsRateLimited(err))

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindAPI, fetchErr.Kind)
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
	assert.Equal(t, "Resource not accessible", fetchErr.Body)
}

func TestClient_FetchAll_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindAPI, fetchErr.Kind)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, "GitHub API error: 404 - Not Found", err.Error())
}

func TestClient_FetchAll_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	server.Close()

	client := NewClient(&http.Client{Timeout: time.Second}, "octo", WithBaseURL(baseURL))

	_, err = client.FetchAll(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindRequest, fetchErr.Kind)
	assert.Contains(t, err.Error(), "GitHub request failed")
}

func TestClient_FetchAll_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchAll(ctx)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindRequest, fetchErr.Kind)
}

func TestClient_WithToken_SetsAuthorization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	client := NewClient(http.DefaultClient, "octo", WithBaseURL(baseURL), WithToken("ghp_test"))
	_, err = client.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer ghp_test", gotAuth)
}

func TestNewClient_Validation(t *testing.T) {
	assert.Panics(t, func() { NewClient(nil, "octo") })
	assert.Panics(t, func() { NewClient(http.DefaultClient, "") })
}
