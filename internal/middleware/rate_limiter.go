package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"paulinepos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter ──────────────────────────────────────────────────────

// windowEntry tracks the requests of one client IP in the current window.
type windowEntry struct {
	count     int
	windowEnd time.Time
}

// windowLimiter counts requests per client IP in fixed windows. Expired
// entries are purged lazily, at most once per window.
type windowLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	entries   map[string]*windowEntry
	nextPurge time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*windowEntry),
	}
}

// allow counts one request for ip. When the limit is exceeded it returns
// false and the time the window reopens.
func (l *windowLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextPurge) {
		l.purgeLocked(now)
		l.nextPurge = now.Add(l.window)
	}

	e, ok := l.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *windowLimiter) purgeLocked(now time.Time) {
	purged := 0
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter entries purged")
	}
}

func (l *windowLimiter) middleware(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, reopens := l.allow(c.ClientIP())
		if !ok {
			secs := int(time.Until(reopens).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.WithCode("rate_limited", msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login and registration attempts per IP.
func LoginRateLimiter(perMinute int) gin.HandlerFunc {
	return newWindowLimiter(perMinute, time.Minute).
		middleware("Trop de tentatives de connexion. Réessayez dans une minute.")
}

// RateLimiter is the general API limiter: limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newWindowLimiter(limit, window).
		middleware("Trop de requêtes. Réessayez dans un instant.")
}
