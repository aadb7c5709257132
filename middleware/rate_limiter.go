package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"meditravel/config"
	"meditravel/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// clientLimiter pairs a token bucket with its last-seen time so idle
// entries can be pruned.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterRegistry struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	perMin  int
}

func newLimiterRegistry(perMin int) *limiterRegistry {
	if perMin <= 0 {
		perMin = 100
	}
	r := &limiterRegistry{
		clients: make(map[string]*clientLimiter),
		perMin:  perMin,
	}
	go r.prune()
	return r
}

func (r *limiterRegistry) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cl, ok := r.clients[ip]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.perMin)), r.perMin),
		}
		r.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter.Allow()
}

// prune drops limiters for clients idle longer than ten minutes.
func (r *limiterRegistry) prune() {
	for range time.Tick(time.Minute) {
		cutoff := time.Now().Add(-10 * time.Minute)
		r.mu.Lock()
		for ip, cl := range r.clients {
			if cl.lastSeen.Before(cutoff) {
				delete(r.clients, ip)
			}
		}
		r.mu.Unlock()
	}
}

var (
	registryOnce sync.Once
	registry     *limiterRegistry
)

// RateLimitMiddleware throttles requests per client IP. The per-minute budget
// comes from MAX_REQUESTS_PER_MIN.
func RateLimitMiddleware() gin.HandlerFunc {
	registryOnce.Do(func() {
		registry = newLimiterRegistry(config.AppConfig.MaxRequestsPerMin)
	})
	return func(c *gin.Context) {
		ip := clientIP(c)
		if !registry.allow(ip) {
			utils.GetLogger().Warn("rate limit exceeded",
				zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Try again later.",
			})
			return
		}
		c.Next()
	}
}

// clientIP resolves the originating client address, preferring proxy headers
// over the socket peer.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
