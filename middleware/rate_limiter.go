package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an IP may stay silent before its limiter is dropped.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore keeps one token bucket per client IP. Musicians heartbeat
// continuously, so buckets for clients that went quiet are evicted lazily.
type rateLimiterStore struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	perMin    int
	now       func() time.Time
	lastSweep time.Time
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = 100
	}
	return &rateLimiterStore{
		clients: make(map[string]*clientLimiter),
		perMin:  perMin,
		now:     time.Now,
	}
}

// allow consumes one token from ip's bucket.
func (s *rateLimiterStore) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterIdleTTL {
		for key, cl := range s.clients {
			if now.Sub(cl.lastSeen) >= limiterIdleTTL {
				delete(s.clients, key)
			}
		}
		s.lastSweep = now
	}

	cl, ok := s.clients[ip]
	if !ok {
		// perMin per minute, bursting up to the full minute's allowance.
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// RateLimitMiddleware rejects a client with 429 once it exceeds perMin requests per minute.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	store := newRateLimiterStore(perMin)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.allow(ip) {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
