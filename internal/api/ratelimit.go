package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	defaultLimiterRPS   = 10
	defaultLimiterBurst = 20
)

// SubjectLimiter throttles requests with one token bucket per authenticated subject.
type SubjectLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewSubjectLimiter creates a limiter allowing rps requests per second with the given burst.
func NewSubjectLimiter(rps, burst int) *SubjectLimiter {
	if rps <= 0 {
		rps = defaultLimiterRPS
	}
	if burst <= 0 {
		burst = defaultLimiterBurst
	}
	return &SubjectLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether subject may make another request now.
func (l *SubjectLimiter) Allow(subject string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[subject]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[subject] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

// Middleware answers 429 once the caller's bucket is empty. A nil limiter lets everything through.
func (l *SubjectLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		if !l.Allow(principal(c).Subject) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests",
			})
			return
		}
		c.Next()
	}
}
