package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func TestRateLimitMiddleware_AllowsWithinBurst(t *testing.T) {
	ls := newLimiterSet(60, 2)
	r := newTestRouter(rateLimitMiddleware(ls, 60, func(c *gin.Context) string { return "ip:" + c.ClientIP() }))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_RejectsOverBurst(t *testing.T) {
	ls := newLimiterSet(60, 1)
	r := newTestRouter(rateLimitMiddleware(ls, 60, func(c *gin.Context) string { return "ip:" + c.ClientIP() }))

	req1 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, req1)
	require.Equal(t, http.StatusOK, w1.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	assert.Equal(t, "0", w2.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitMiddleware_KeysIndependently(t *testing.T) {
	ls := newLimiterSet(60, 1)
	mw := rateLimitMiddleware(ls, 60, func(c *gin.Context) string { return c.GetHeader("X-Key") })
	r := newTestRouter(mw)

	req1 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req1.Header.Set("X-Key", "tenant-a")
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req2.Header.Set("X-Key", "tenant-b")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code, "a distinct key must have its own bucket")
}

func TestClientKey_PrefersUserID(t *testing.T) {
	r := gin.New()
	r.GET("/ping", func(c *gin.Context) {
		c.Set("UserID", "user-42")
		assert.Equal(t, "user:user-42", clientKey(c))
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
}

func TestClientKey_FallsBackToIP(t *testing.T) {
	r := gin.New()
	r.GET("/ping", func(c *gin.Context) {
		key := clientKey(c)
		assert.Contains(t, key, "ip:")
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
}
