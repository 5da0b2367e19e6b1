package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"fleetledger/internal/domain"
	"fleetledger/internal/httpapi"
)

// limiterSet mirrors the teacher's IPRateLimiter: a per-key rate.Limiter map
// guarded by a mutex, wiped wholesale on an interval instead of tracking
// per-key last-seen, which bounds memory without needing an LRU.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
}

func newLimiterSet(perMinute int, burst int) *limiterSet {
	ls := &limiterSet{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(float64(perMinute) / 60.0),
		b:        burst,
	}
	go ls.cleanupLoop()
	return ls
}

func (ls *limiterSet) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		ls.mu.Lock()
		ls.limiters = make(map[string]*rate.Limiter)
		ls.mu.Unlock()
	}
}

func (ls *limiterSet) get(key string) *rate.Limiter {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	l, ok := ls.limiters[key]
	if !ok {
		l = rate.NewLimiter(ls.r, ls.b)
		ls.limiters[key] = l
	}
	return l
}

// Named tiers per the request pipeline's rate limit classes. Each tier keys
// off a different identity: IP for anonymous traffic, user-id (falling back
// to IP) for authenticated traffic, plus a tight global safety net.
var (
	publicAPILimiter       = newLimiterSet(100, 20)
	authStrictLimiter      = newLimiterSet(5, 2)
	authenticatedAPILimiter = newLimiterSet(500, 50)
	globalSafetyLimiter    = newLimiterSet(5, 5)
)

func clientKey(c *gin.Context) string {
	if uid, ok := c.Get("UserID"); ok {
		if s, ok := uid.(string); ok && s != "" {
			return "user:" + s
		}
	}
	return "ip:" + c.ClientIP()
}

func rateLimitMiddleware(ls *limiterSet, limitPerMinute int, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		limiter := ls.get(key)
		if !limiter.Allow() {
			reset := time.Now().Add(time.Minute).Unix()
			c.Header("X-RateLimit-Limit", strconv.Itoa(limitPerMinute))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
			httpapi.RespondError(c, domain.NewError(domain.CodeRateLimited, fmt.Sprintf("rate limit exceeded (%d/min)", limitPerMinute)))
			c.Abort()
			return
		}
		remaining := int(limiter.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limitPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}

// PublicAPIRateLimit covers anonymous read-mostly endpoints: 100 req/min/IP.
func PublicAPIRateLimit() gin.HandlerFunc {
	return rateLimitMiddleware(publicAPILimiter, 100, func(c *gin.Context) string { return "ip:" + c.ClientIP() })
}

// AuthStrictRateLimit covers login/token endpoints: 5 req/min/IP.
func AuthStrictRateLimit() gin.HandlerFunc {
	return rateLimitMiddleware(authStrictLimiter, 5, func(c *gin.Context) string { return "ip:" + c.ClientIP() })
}

// AuthenticatedAPIRateLimit covers authenticated mutation endpoints: 500
// req/min keyed by user id, falling back to IP when no subject is set.
func AuthenticatedAPIRateLimit() gin.HandlerFunc {
	return rateLimitMiddleware(authenticatedAPILimiter, 500, clientKey)
}

// GlobalSafetyRateLimit is a tight, always-on backstop applied ahead of
// every other tier: 5 req/min/IP, intended to blunt runaway clients before
// they reach any per-route limiter.
func GlobalSafetyRateLimit() gin.HandlerFunc {
	return rateLimitMiddleware(globalSafetyLimiter, 5, func(c *gin.Context) string { return "ip:" + c.ClientIP() })
}
