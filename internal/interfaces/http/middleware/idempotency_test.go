package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"paysentry.backend/pkg/redis"
)

func newIdempotencyRouter(t *testing.T, handled *int64) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	redis.SetClient(client)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/refunds", IdempotencyMiddleware(), func(c *gin.Context) {
		n := atomic.AddInt64(handled, 1)
		c.JSON(http.StatusOK, gin.H{"refund_id": "re_1", "call": n})
	})
	return r
}

func post(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/refunds", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_ReplaysCachedResponse(t *testing.T) {
	var handled int64
	r := newIdempotencyRouter(t, &handled)

	first := post(r, "key-1")
	require.Equal(t, http.StatusOK, first.Code)

	second := post(r, "key-1")
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	require.Equal(t, first.Body.String(), second.Body.String())

	// The handler ran exactly once.
	require.EqualValues(t, 1, handled)
}

func TestIdempotencyMiddleware_DistinctKeysRunSeparately(t *testing.T) {
	var handled int64
	r := newIdempotencyRouter(t, &handled)

	post(r, "key-1")
	post(r, "key-2")
	require.EqualValues(t, 2, handled)
}

func TestIdempotencyMiddleware_NoHeaderPassesThrough(t *testing.T) {
	var handled int64
	r := newIdempotencyRouter(t, &handled)

	post(r, "")
	post(r, "")
	require.EqualValues(t, 2, handled)
}

func TestIdempotencyMiddleware_FailureUnlocksRetry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	redis.SetClient(client)

	gin.SetMode(gin.TestMode)
	var handled int64
	r := gin.New()
	r.POST("/refunds", IdempotencyMiddleware(), func(c *gin.Context) {
		if atomic.AddInt64(&handled, 1) == 1 {
			c.JSON(http.StatusBadGateway, gin.H{"error": "provider down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"refund_id": "re_1"})
	})

	first := post(r, "key-1")
	require.Equal(t, http.StatusBadGateway, first.Code)

	// The failed attempt released the lock, so the retry processes.
	second := post(r, "key-1")
	require.Equal(t, http.StatusOK, second.Code)
	require.EqualValues(t, 2, handled)
}

func TestIdempotencyMiddleware_InFlightConflict(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	redis.SetClient(client)

	// Simulate an in-flight request by planting the processing marker.
	require.NoError(t, mr.Set("idempotency:/refunds:key-1", processingMarker))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/refunds", IdempotencyMiddleware(), func(c *gin.Context) {
		t.Fatal("should not be called")
	})

	w := post(r, "key-1")
	require.Equal(t, http.StatusConflict, w.Code)
}
