package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/H2Siting/internal/infrastructure/database/redis"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

func newServer(t *testing.T, calls *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"title":"Green hydrogen mission","url":"https://mnre.gov.in","content":"National mission","engine":"bing"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Search(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls, http.StatusOK)
	var observed int
	c := NewClient(srv.URL+"/", time.Second, logging.NewNopLogger()).
		WithObserver(func(err error, _ time.Duration) {
			assert.NoError(t, err)
			observed++
		})

	results, err := c.Search(context.Background(), "hydrogen india")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Green hydrogen mission", results[0].Title)
	assert.Equal(t, "https://mnre.gov.in", results[0].URL)
	assert.Equal(t, 1, observed)
}

func TestClient_Search_UpstreamError(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls, http.StatusTooManyRequests)
	c := NewClient(srv.URL, time.Second, logging.NewNopLogger())

	_, err := c.Search(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSearchFailed))
}

func TestCachedSearcher_ServesRepeatFromCache(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls, http.StatusOK)
	mr := miniredis.RunT(t)
	rc, err := redis.NewClient(&redis.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	cache := redis.NewRedisCache(rc, logging.NewNopLogger(), redis.WithJitter(false))

	s := NewCachedSearcher(NewClient(srv.URL, time.Second, logging.NewNopLogger()), cache, time.Minute, logging.NewNopLogger())

	first, err := s.Search(context.Background(), "Hydrogen India")
	require.NoError(t, err)
	second, err := s.Search(context.Background(), "  hydrogen india ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, time.Minute, mr.TTL("h2siting:"+cacheKey("hydrogen india")))
}

func TestCachedSearcher_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls, http.StatusBadGateway)
	mr := miniredis.RunT(t)
	rc, err := redis.NewClient(&redis.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	cache := redis.NewRedisCache(rc, logging.NewNopLogger())

	s := NewCachedSearcher(NewClient(srv.URL, time.Second, logging.NewNopLogger()), cache, 0, logging.NewNopLogger())

	_, err = s.Search(context.Background(), "q")
	require.Error(t, err)
	_, err = s.Search(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

//Personal.AI order the ending
