package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func newRateLimitedRouter(ctx context.Context, rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.Use(IPRateLimitMiddleware(ctx, rps, burst, discardLogger()))
	router.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func postFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestIPRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router := newRateLimitedRouter(ctx, 10.0, 20)

	for range 5 {
		assert.Equal(t, http.StatusOK, postFrom(router, "192.0.2.1:1234").Code)
	}
}

func TestIPRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router := newRateLimitedRouter(ctx, 1.0, 2)

	for range 2 {
		assert.Equal(t, http.StatusOK, postFrom(router, "192.0.2.1:1234").Code)
	}

	w := postFrom(router, "192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestIPRateLimitMiddleware_IndependentPerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router := newRateLimitedRouter(ctx, 1.0, 1)

	assert.Equal(t, http.StatusOK, postFrom(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, postFrom(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusOK, postFrom(router, "192.0.2.2:1234").Code)
}

func TestIPRateLimiterStore_Sweep(t *testing.T) {
	store := &ipRateLimiterStore{rps: 1, burst: 1}
	store.getLimiter("192.0.2.1")
	store.getLimiter("192.0.2.2")

	entry, _ := store.limiters.Load("192.0.2.1")
	entry.(*ipRateLimiterEntry).lastAccess = time.Now().Add(-2 * time.Hour)

	store.sweep(time.Now().Add(-time.Hour))

	_, staleFound := store.limiters.Load("192.0.2.1")
	_, freshFound := store.limiters.Load("192.0.2.2")
	assert.False(t, staleFound)
	assert.True(t, freshFound)
}

func TestIPRateLimitMiddleware_SweeperStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	_ = IPRateLimitMiddleware(ctx, 1.0, 1, discardLogger())
	cancel()
}
