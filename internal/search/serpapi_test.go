package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-research/internal/config"
	"job-research/internal/logging"
)

func newTestSerpAPI(t *testing.T, handler http.HandlerFunc) (*SerpAPIProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Search.BaseURL = srv.URL
	cfg.Search.APIKey = "test-key"
	cfg.Search.Timeout = 2 * time.Second

	p := NewSerpAPIProvider(cfg, logging.NewNopLogger())
	p.backoff = time.Millisecond
	return p, srv
}

func TestSerpAPIProvider_Pagination(t *testing.T) {
	var calls int32
	p, _ := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query()
		assert.Equal(t, "google_jobs", q.Get("engine"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "Go Developer", q.Get("q"))
		assert.Equal(t, "Austin, TX", q.Get("location"))
		assert.Equal(t, "1", q.Get("ltype"))

		w.Header().Set("Content-Type", "application/json")
		if q.Get("next_page_token") == "" {
			fmt.Fprint(w, `{"jobs_results":[{"title":"A"},{"title":"B"}],"serpapi_pagination":{"next_page_token":"tok"}}`)
			return
		}
		assert.Equal(t, "tok", q.Get("next_page_token"))
		fmt.Fprint(w, `{"jobs_results":[{"title":"C"}]}`)
	})

	items, err := p.Query(context.Background(), SearchRequest{
		Query:      "Go Developer",
		Location:   "Austin, TX",
		RemoteOnly: true,
		MaxResults: 30,
	})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.JSONEq(t, `{"title":"C"}`, string(items[2]))
}

func TestSerpAPIProvider_PageLimitFromMaxResults(t *testing.T) {
	var calls int32
	p, _ := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"jobs_results":[{"title":"A"}],"serpapi_pagination":{"next_page_token":"more"}}`)
	})

	_, err := p.Query(context.Background(), SearchRequest{Query: "x", MaxResults: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSerpAPIProvider_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	p, _ := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"Invalid API key"}`, http.StatusUnauthorized)
	})

	_, err := p.Query(context.Background(), SearchRequest{Query: "x", MaxResults: 10})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSerpAPIProvider_ServerErrorRetried(t *testing.T) {
	var calls int32
	p, _ := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"jobs_results":[{"title":"A"}]}`)
	})

	items, err := p.Query(context.Background(), SearchRequest{Query: "x", MaxResults: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSerpAPIProvider_EmptyResultMessage(t *testing.T) {
	p, _ := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"Google hasn't returned any results for this query."}`)
	})

	items, err := p.Query(context.Background(), SearchRequest{Query: "x", MaxResults: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSerpAPIProvider_ProviderErrorMessage(t *testing.T) {
	p, _ := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"Your account has run out of searches."}`)
	})

	_, err := p.Query(context.Background(), SearchRequest{Query: "x", MaxResults: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run out of searches")
}

func TestSerpAPIProvider_MissingAPIKey(t *testing.T) {
	p := NewSerpAPIProvider(config.Default(), logging.NewNopLogger())
	_, err := p.Query(context.Background(), SearchRequest{Query: "x"})
	assert.Error(t, err)
}
