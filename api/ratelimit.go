package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client represents a client for rate limiting purposes.
type Client struct {
	Limiter  *rate.Limiter
	LastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	rps   float64
	burst int

	mu      sync.Mutex
	clients map[string]*Client
}

// NewRateLimiter allows rps requests per second with the given burst per IP.
// A non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{rps: rps, burst: burst, clients: make(map[string]*Client)}
}

// Allow reports whether the client may make a request now
func (l *RateLimiter) Allow(ip string) bool {
	if l.rps <= 0 {
		return true
	}

	l.mu.Lock()
	client, exists := l.clients[ip]
	if !exists {
		client = &Client{Limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.clients[ip] = client
	}
	client.LastSeen = time.Now()
	l.mu.Unlock()

	return client.Limiter.Allow()
}

// Middleware rejects requests over the limit with 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			log.Warn().Str("ip", ip).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// Cleanup removes clients inactive for longer than maxIdle
func (l *RateLimiter) Cleanup(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, client := range l.clients {
		if time.Since(client.LastSeen) > maxIdle {
			delete(l.clients, ip)
			removed++
		}
	}
	if removed > 0 {
		log.Debug().Int("removed", removed).Msg("cleaned up inactive clients")
	}
	return removed
}
