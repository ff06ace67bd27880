package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/liuran001/tunebot/bot/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParsesResults(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"videoId":"abc"},"snippet":{"title":"Wizkid - Essence (feat. Tems) &amp; more"}},
			{"id":{"kind":"youtube#channel"},"snippet":{"title":"skip me"}},
			{"id":{"videoId":"def"},"snippet":{"title":"Burna Boy - Last Last"}}
		]}`))
	}))
	defer server.Close()

	c := New(Options{APIKey: "key", BaseURL: server.URL, MaxResults: 10})
	results, err := c.Search(context.Background(), "  wizkid ")
	require.NoError(t, err)
	assert.Equal(t, []session.Result{
		{VideoID: "abc", Title: "Wizkid - Essence (feat. Tems) & more"},
		{VideoID: "def", Title: "Burna Boy - Last Last"},
	}, results)

	q := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"wizkid"}, q["q"])
	assert.Equal(t, []string{"video"}, q["type"])
	assert.Equal(t, []string{"snippet"}, q["part"])
	assert.Equal(t, []string{"10"}, q["maxResults"])
	assert.Equal(t, []string{"key"}, q["key"])
}

func TestSearchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":{"videoId":"abc"},"snippet":{"title":"ok"}}]}`))
	}))
	defer server.Close()

	c := New(Options{APIKey: "key", BaseURL: server.URL, MaxRetries: 2})
	c.minBackoff = time.Millisecond
	c.maxBackoff = time.Millisecond

	results, err := c.Search(context.Background(), "song")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearchDoesNotRetryQuotaErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	}))
	defer server.Close()

	c := New(Options{APIKey: "key", BaseURL: server.URL})
	_, err := c.Search(context.Background(), "song")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quotaExceeded")
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearchEmptyItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	results, err := New(Options{APIKey: "key", BaseURL: server.URL}).Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRequiresKey(t *testing.T) {
	_, err := New(Options{}).Search(context.Background(), "song")
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{APIKey: "key", BaseURL: "http://127.0.0.1:1"}).Search(ctx, "song")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(errors.New("connection reset")))
	assert.True(t, retryable(&statusError{code: 500}))
	assert.True(t, retryable(&statusError{code: 429}))
	assert.False(t, retryable(&statusError{code: 400}))
	assert.False(t, retryable(context.Canceled))
}
